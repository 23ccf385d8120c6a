package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"BidRadar/pkg/amzclient"
	"BidRadar/pkg/audit"
	"BidRadar/pkg/config"
	"BidRadar/pkg/database"
	"BidRadar/pkg/engine"
	"BidRadar/pkg/messaging"
	"BidRadar/pkg/model"
	"BidRadar/pkg/report"
)

func main() {
	// .env存在时加载凭证
	_ = godotenv.Load()

	configPath := flag.String("config", "", "配置文件路径")
	profileID := flag.String("profile-id", "", "目标账户档案ID，为空时取第一个")
	dryRun := flag.Bool("dry-run", false, "只计算决策，不推送任何变更")
	skipBids := flag.Bool("skip-bids", false, "跳过关键词调价")
	skipCampaigns := flag.Bool("skip-campaigns", false, "跳过活动启停")
	skipKeywords := flag.Bool("skip-keywords", false, "跳过关键词拓展")
	skipNewCampaigns := flag.Bool("skip-new-campaigns", false, "跳过新活动创建")
	flag.Parse()

	log.Println("启动PPC优化器...")

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	// 广告平台客户端
	client, err := amzclient.NewClient(cfg.Amazon.Scope, amzclient.Credentials{
		ClientID:     cfg.Amazon.ClientID,
		ClientSecret: cfg.Amazon.ClientSecret,
		RefreshToken: cfg.Amazon.RefreshToken,
	}, cfg.Amazon.Timeout)
	if err != nil {
		log.Fatalf("创建平台客户端失败: %v\n", err)
	}

	retriever := report.NewRetriever(client, cfg.Report.PollInterval, cfg.Report.PollTimeout)

	// 审计：CSV始终开启，数据库按配置附加
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

	result, err := optimizer.Run(model.RunOptions{
		ProfileID:        *profileID,
		DryRun:           *dryRun,
		SkipBids:         *skipBids,
		SkipCampaigns:    *skipCampaigns,
		SkipKeywords:     *skipKeywords,
		SkipNewCampaigns: *skipNewCampaigns,
	})
	if err != nil {
		log.Fatalf("优化运行失败: %v\n", err)
	}

	for _, issue := range result.Issues {
		log.Printf("问题: %s", issue)
	}
	log.Printf("运行 %s 结束: 账户 %s, 调价 %d, 活动动作 %d, 新关键词 %d, 新活动 %d",
		result.RunID, result.ProfileName, len(result.BidDecisions),
		len(result.CampaignActions), len(result.AddedKeywords), len(result.CreatedCampaigns))
}
