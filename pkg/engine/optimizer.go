// pkg/engine/optimizer.go
package engine

import (
	"log"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"BidRadar/pkg/model"
)

// PlatformClient 优化器消费的广告平台能力集合
type PlatformClient interface {
	ListProfiles() ([]model.Profile, error)
	ListAdGroups(profileID, campaignID string) ([]model.AdGroup, error)
	UpdateKeywordBids(profileID string, updates []model.KeywordBidUpdate) ([]model.MutationResult, error)
	CampaignStateUpdater
	KeywordExpander
	CampaignCreator
}

// ReportRetriever 报表获取能力
type ReportRetriever interface {
	Retrieve(profileID string, kind model.ReportKind, lookbackDays int) ([]model.PerformanceRecord, error)
}

// AuditRecorder 审计记录能力
type AuditRecorder interface {
	RecordBid(rec model.AuditRecord) error
	RecordAction(rec model.CampaignActionRecord) error
	Flush() error
}

// Publisher 运行结果发布能力
type Publisher interface {
	PublishRunSummary(result *model.RunResult) error
}

// Optimizer 优化运行编排器
// 每轮：报表获取 → KPI → {调价, 活动启停} → 推送 → 关键词拓展 → 新活动 → 审计
type Optimizer struct {
	client    PlatformClient
	retriever ReportRetriever
	recorder  AuditRecorder
	publisher Publisher
	catalog   ProductCatalog
	rules     model.RulesConfig
	now       func() time.Time
}

// NewOptimizer 创建优化器
func NewOptimizer(client PlatformClient, retriever ReportRetriever, rules model.RulesConfig) *Optimizer {
	return &Optimizer{
		client:    client,
		retriever: retriever,
		rules:     rules,
		now:       time.Now,
	}
}

// WithRecorder 设置审计记录器
func (o *Optimizer) WithRecorder(recorder AuditRecorder) *Optimizer {
	o.recorder = recorder
	return o
}

// WithPublisher 设置运行结果发布器
func (o *Optimizer) WithPublisher(publisher Publisher) *Optimizer {
	o.publisher = publisher
	return o
}

// WithCatalog 设置商品目录
func (o *Optimizer) WithCatalog(catalog ProductCatalog) *Optimizer {
	o.catalog = catalog
	return o
}

// WithNow 替换时钟，测试用
func (o *Optimizer) WithNow(now func() time.Time) *Optimizer {
	o.now = now
	return o
}

// Run 执行一轮优化
// 运行级错误返回FatalError；阶段级错误降级为空结果并记入Issues继续
func (o *Optimizer) Run(opts model.RunOptions) (*model.RunResult, error) {
	result := &model.RunResult{
		RunID:     uuid.New().String(),
		DryRun:    opts.DryRun,
		StartedAt: o.now(),
	}

	log.Printf("优化运行开始 (run_id: %s, dry_run: %v)", result.RunID, opts.DryRun)

	// 账户档案解析，失败即运行级致命
	profile, err := o.resolveProfile(opts.ProfileID)
	if err != nil {
		return nil, err
	}
	result.ProfileID = profile.ProfileID
	result.ProfileName = profile.AccountInfo.Name
	log.Printf("使用账户档案: %s (ID: %s)", result.ProfileName, result.ProfileID)

	// 分时段乘数在运行开始时取定，整轮一致
	result.DaypartMult = DaypartMultiplier(o.rules, o.now().Hour())
	log.Printf("分时段乘数: %.2fx (当前小时: %d)", result.DaypartMult, o.now().Hour())

	// 步骤1: 活动绩效报表 + 活动启停
	if opts.SkipCampaigns {
		result.CampaignStage.Skipped = true
	} else {
		o.runCampaignStage(opts, result)
	}

	// 步骤2: 关键词绩效报表 + 调价
	if opts.SkipBids {
		result.BidStage.Skipped = true
	} else {
		o.runBidStage(opts, result)
	}

	// 步骤3: 关键词拓展
	if opts.SkipKeywords {
		result.KeywordStage.Skipped = true
	} else {
		o.runKeywordStage(opts, result)
	}

	// 步骤4: 新活动创建
	if opts.SkipNewCampaigns {
		result.NewCampaignStage.Skipped = true
	} else {
		o.runNewCampaignStage(opts, result)
	}

	// 审计落盘
	if o.recorder != nil {
		if err := o.recorder.Flush(); err != nil {
			log.Printf("警告: 写入审计记录失败: %v", err)
			result.Issues = append(result.Issues, "写入审计记录失败: "+err.Error())
		}
	}

	result.FinishedAt = o.now()

	// 运行结果发布，失败不影响本轮结果
	if o.publisher != nil {
		if err := o.publisher.PublishRunSummary(result); err != nil {
			log.Printf("警告: 发布运行结果失败: %v", err)
		}
	}

	mode := "LIVE"
	if opts.DryRun {
		mode = "DRY RUN"
	}
	log.Printf("优化运行完成 (模式: %s): 调价 %d, 活动动作 %d, 新关键词 %d, 新活动 %d",
		mode, len(result.BidDecisions), len(result.CampaignActions),
		len(result.AddedKeywords), len(result.CreatedCampaigns))

	return result, nil
}

// resolveProfile 解析目标账户档案
func (o *Optimizer) resolveProfile(profileID string) (*model.Profile, error) {
	profiles, err := o.client.ListProfiles()
	if err != nil {
		return nil, &FatalError{Err: err}
	}
	if len(profiles) == 0 {
		return nil, Fatalf("没有可用的账户档案")
	}

	if profileID == "" {
		return &profiles[0], nil
	}

	for i := range profiles {
		if profiles[i].ProfileID == profileID {
			return &profiles[i], nil
		}
	}
	return nil, Fatalf("未找到指定的账户档案: %s", profileID)
}

// runCampaignStage 活动启停阶段
func (o *Optimizer) runCampaignStage(opts model.RunOptions, result *model.RunResult) {
	rows, err := o.retriever.Retrieve(result.ProfileID, model.ReportKindCampaigns, o.rules.LookbackDays)
	if err != nil {
		// 阶段级降级：本阶段空结果，运行继续
		stageErr := &StageError{Stage: "campaigns", Err: err}
		log.Printf("警告: %v", stageErr)
		result.Issues = append(result.Issues, stageErr.Error())
		rows = nil
	}

	var performance []CampaignPerformance
	for _, row := range rows {
		if row.CampaignID == "" {
			continue
		}
		state := model.CampaignState(row.CampaignStatus)
		if state == "" {
			state = model.CampaignStateEnabled
		}
		performance = append(performance, CampaignPerformance{
			CampaignID: row.CampaignID,
			Name:       row.CampaignName,
			State:      state,
			Kpi:        ComputeKpis(row),
		})
	}
	result.CampaignStage.Evaluated = len(performance)

	actions, issues := ManageCampaigns(o.client, result.ProfileID, performance, o.rules, opts.DryRun)
	result.CampaignActions = actions
	result.Issues = append(result.Issues, issues...)
	result.CampaignStage.Failed = len(issues)
	for _, a := range actions {
		if a.Applied || opts.DryRun {
			result.CampaignStage.Succeeded++
		}
	}

	if o.recorder != nil {
		for _, a := range actions {
			rec := model.CampaignActionRecord{
				RunID:      result.RunID,
				ProfileID:  result.ProfileID,
				CampaignID: a.CampaignID,
				PrevState:  string(a.PrevState),
				NewState:   string(a.NewState),
				Reason:     a.Reason,
				Acos:       model.FormatAcos(a.Acos),
				Applied:    a.Applied,
				CreatedAt:  o.now().UTC(),
			}
			if err := o.recorder.RecordAction(rec); err != nil {
				log.Printf("警告: 记录活动动作失败: %v", err)
			}
		}
	}
}

// runBidStage 关键词调价阶段
func (o *Optimizer) runBidStage(opts model.RunOptions, result *model.RunResult) {
	rows, err := o.retriever.Retrieve(result.ProfileID, model.ReportKindKeywords, o.rules.LookbackDays)
	if err != nil {
		stageErr := &StageError{Stage: "bids", Err: err}
		log.Printf("警告: %v", stageErr)
		result.Issues = append(result.Issues, stageErr.Error())
		return
	}
	if len(rows) == 0 {
		return
	}

	// 当前出价快照一次取齐，逐行查表
	currentBids, err := o.loadCurrentBids(result.ProfileID)
	if err != nil {
		stageErr := &StageError{Stage: "bids", Err: err}
		log.Printf("警告: %v", stageErr)
		result.Issues = append(result.Issues, stageErr.Error())
		return
	}

	var updates []model.KeywordBidUpdate
	for _, row := range rows {
		if row.KeywordID == "" {
			continue
		}
		result.BidStage.Evaluated++

		kpi := ComputeKpis(row)

		currentBid, ok := currentBids[row.KeywordID]
		if !ok {
			// 实体级：单个关键词出价缺失不影响其余行
			log.Printf("关键词 %s 当前出价缺失，跳过", row.KeywordID)
			continue
		}

		newBid, rule, fired := DecideBid(o.rules, kpi, currentBid, result.DaypartMult)
		if !fired || math.Abs(newBid-currentBid) <= DeadBand {
			continue
		}

		decision := model.BidDecision{
			KeywordID:   row.KeywordID,
			KeywordText: row.KeywordText,
			CurrentBid:  round2(currentBid),
			NewBid:      round2(newBid),
			Rule:        rule,
			Kpi:         kpi,
			DaypartMult: result.DaypartMult,
		}
		result.BidDecisions = append(result.BidDecisions, decision)

		// 审计记录与是否真正推送无关，先记再谈推送
		if o.recorder != nil {
			rec := model.AuditRecord{
				RunID:       result.RunID,
				ProfileID:   result.ProfileID,
				KeywordID:   decision.KeywordID,
				KeywordText: decision.KeywordText,
				OldBid:      decision.CurrentBid,
				NewBid:      decision.NewBid,
				Change:      round2(decision.Delta()),
				Ctr:         kpi.Ctr,
				Acos:        kpi.Acos,
				AcosValue:   model.FormatAcos(kpi.Acos),
				Clicks:      kpi.Clicks,
				Cost:        kpi.Cost,
				Sales:       kpi.Sales,
				DaypartMult: result.DaypartMult,
				DryRun:      opts.DryRun,
				Rule:        rule,
				CreatedAt:   o.now().UTC(),
			}
			if err := o.recorder.RecordBid(rec); err != nil {
				log.Printf("警告: 记录出价审计失败: %v", err)
			}
		}

		id, err := strconv.ParseInt(row.KeywordID, 10, 64)
		if err != nil {
			log.Printf("非法关键词ID %q，跳过推送", row.KeywordID)
			continue
		}
		updates = append(updates, model.KeywordBidUpdate{KeywordID: id, Bid: round2(newBid)})
	}

	if len(updates) == 0 {
		log.Println("无需调价")
		return
	}

	if opts.DryRun {
		log.Printf("拟调价 %d 个关键词 (dry-run)", len(updates))
		result.BidStage.Succeeded = len(updates)
		return
	}

	if _, err := o.client.UpdateKeywordBids(result.ProfileID, updates); err != nil {
		log.Printf("警告: 推送出价更新失败: %v", err)
		result.Issues = append(result.Issues, "推送出价更新失败: "+err.Error())
		result.BidStage.Failed = len(updates)
		return
	}
	result.BidStage.Succeeded = len(updates)
	log.Printf("已更新 %d 个关键词出价", len(updates))
}

// loadCurrentBids 拉取全部关键词构建ID到当前出价的映射
func (o *Optimizer) loadCurrentBids(profileID string) (map[string]float64, error) {
	keywords, err := o.client.ListKeywords(profileID, "")
	if err != nil {
		return nil, err
	}
	bids := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		bids[strconv.FormatInt(kw.KeywordID, 10)] = kw.Bid
	}
	return bids, nil
}

// runKeywordStage 关键词拓展阶段
func (o *Optimizer) runKeywordStage(opts model.RunOptions, result *model.RunResult) {
	adGroups, err := o.client.ListAdGroups(result.ProfileID, "")
	if err != nil {
		stageErr := &StageError{Stage: "keywords", Err: err}
		log.Printf("警告: %v", stageErr)
		result.Issues = append(result.Issues, stageErr.Error())
		return
	}
	result.KeywordStage.Evaluated = len(adGroups)

	added, issues := ExpandKeywords(o.client, result.ProfileID, adGroups, o.rules, opts.DryRun)
	result.AddedKeywords = added
	result.Issues = append(result.Issues, issues...)
	result.KeywordStage.Succeeded = len(added)
	result.KeywordStage.Failed = len(issues)
}

// runNewCampaignStage 新活动创建阶段
func (o *Optimizer) runNewCampaignStage(opts model.RunOptions, result *model.RunResult) {
	created, issues := CreateCampaignsForProducts(o.client, o.catalog, result.ProfileID, o.rules, opts.DryRun, o.now)
	result.CreatedCampaigns = created
	result.Issues = append(result.Issues, issues...)
	result.NewCampaignStage.Evaluated = len(created) + len(issues)
	result.NewCampaignStage.Succeeded = len(created)
	result.NewCampaignStage.Failed = len(issues)
}

// round2 出价保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
