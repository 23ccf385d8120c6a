package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"BidRadar/pkg/amzclient"
	"BidRadar/pkg/api"
	"BidRadar/pkg/audit"
	"BidRadar/pkg/config"
	"BidRadar/pkg/database"
	"BidRadar/pkg/engine"
	"BidRadar/pkg/messaging"
	"BidRadar/pkg/report"
)

func main() {
	_ = godotenv.Load()

	log.Println("启动BidRadar API服务...")

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	client, err := amzclient.NewClient(cfg.Amazon.Scope, amzclient.Credentials{
		ClientID:     cfg.Amazon.ClientID,
		ClientSecret: cfg.Amazon.ClientSecret,
		RefreshToken: cfg.Amazon.RefreshToken,
	}, cfg.Amazon.Timeout)
	if err != nil {
		log.Fatalf("创建平台客户端失败: %v\n", err)
	}

	retriever := report.NewRetriever(client, cfg.Report.PollInterval, cfg.Report.PollTimeout)

	var store *database.Store
	recorders := []audit.Recorder{audit.NewCSVRecorder(cfg.Audit.Dir)}
	if cfg.Database.Enabled {
		store, err = database.NewStore(cfg)
		if err != nil {
			log.Fatalf("连接数据库失败: %v\n", err)
		}
		defer store.Close()
		recorders = append(recorders, store)
	}

	optimizer := engine.NewOptimizer(client, retriever, cfg.Rules).
		WithRecorder(audit.NewMultiRecorder(recorders...)).
		WithCatalog(engine.NewPlatformCatalog(client, cfg.Catalog))

	if cfg.NATS.Enabled {
		natsClient, err := messaging.NewNATSClient(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("连接NATS失败: %v\n", err)
		}
		defer natsClient.Close()
		optimizer.WithPublisher(natsClient)
	}

	var querier api.AuditQuerier
	if store != nil {
		querier = store
	}

	server := api.NewServer(cfg.API.Port)
	server.SetupRoutes(api.NewHandlers(optimizer, querier))
	server.Start()
}
