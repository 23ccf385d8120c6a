package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"BidRadar/pkg/amzclient"
	"BidRadar/pkg/audit"
	"BidRadar/pkg/config"
	"BidRadar/pkg/database"
	"BidRadar/pkg/engine"
	"BidRadar/pkg/messaging"
	"BidRadar/pkg/model"
	"BidRadar/pkg/report"
	"BidRadar/pkg/scheduler"
)

func main() {
	_ = godotenv.Load()

	log.Println("启动周期优化调度器...")

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

	recorders := []audit.Recorder{audit.NewCSVRecorder(cfg.Audit.Dir)}
	if cfg.Database.Enabled {
		store, err := database.NewStore(cfg)
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

	sched := scheduler.NewScheduler(optimizer, model.RunOptions{
		ProfileID: os.Getenv("AMAZON_PROFILE_ID"),
		DryRun:    os.Getenv("DRY_RUN") == "true",
	})

	// 启动即跑一轮，之后按周期执行
	go func() {
		if _, err := sched.RunNow(); err != nil {
			log.Printf("首轮优化运行失败: %v", err)
		}
	}()

	sched.Start()
	defer sched.Stop()

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("正在关闭调度器...")
}
