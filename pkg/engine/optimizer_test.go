package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BidRadar/pkg/model"
)

// fakePlatform 优化器全链路测试用的平台假实现
type fakePlatform struct {
	profiles     []model.Profile
	profilesErr  error
	keywords     []model.Keyword
	adGroups     []model.AdGroup
	bidUpdates   []model.KeywordBidUpdate
	stateUpdates map[string]model.CampaignState
	bidErr       error
}

func (f *fakePlatform) ListProfiles() ([]model.Profile, error) {
	return f.profiles, f.profilesErr
}

func (f *fakePlatform) ListAdGroups(profileID, campaignID string) ([]model.AdGroup, error) {
	return f.adGroups, nil
}

func (f *fakePlatform) UpdateKeywordBids(profileID string, updates []model.KeywordBidUpdate) ([]model.MutationResult, error) {
	if f.bidErr != nil {
		return nil, f.bidErr
	}
	f.bidUpdates = append(f.bidUpdates, updates...)
	return make([]model.MutationResult, len(updates)), nil
}

func (f *fakePlatform) UpdateCampaignState(profileID, campaignID string, state model.CampaignState) error {
	if f.stateUpdates == nil {
		f.stateUpdates = make(map[string]model.CampaignState)
	}
	f.stateUpdates[campaignID] = state
	return nil
}

func (f *fakePlatform) ListKeywords(profileID, adGroupID string) ([]model.Keyword, error) {
	return f.keywords, nil
}

func (f *fakePlatform) GetKeywordSuggestions(profileID, adGroupID string, maxCount int) ([]model.SuggestedKeyword, error) {
	return nil, nil
}

func (f *fakePlatform) CreateKeywords(profileID string, candidates []model.KeywordCandidate) ([]model.MutationResult, error) {
	return make([]model.MutationResult, len(candidates)), nil
}

func (f *fakePlatform) CreateCampaign(profileID, name string, dailyBudget float64, targetingType string) (int64, error) {
	return 1, nil
}

func (f *fakePlatform) CreateAdGroup(profileID string, campaignID int64, name string, defaultBid float64) (int64, error) {
	return 2, nil
}

func (f *fakePlatform) CreateProductAd(profileID string, campaignID, adGroupID int64, sku, asin string) error {
	return nil
}

// fakeReportRetriever 按报表类型返回固定行或错误
type fakeReportRetriever struct {
	rows map[model.ReportKind][]model.PerformanceRecord
	errs map[model.ReportKind]error
}

func (f *fakeReportRetriever) Retrieve(profileID string, kind model.ReportKind, lookbackDays int) ([]model.PerformanceRecord, error) {
	if err := f.errs[kind]; err != nil {
		return nil, err
	}
	return f.rows[kind], nil
}

// memRecorder 内存审计记录器
type memRecorder struct {
	bids    []model.AuditRecord
	actions []model.CampaignActionRecord
	flushed int
}

func (m *memRecorder) RecordBid(rec model.AuditRecord) error {
	m.bids = append(m.bids, rec)
	return nil
}

func (m *memRecorder) RecordAction(rec model.CampaignActionRecord) error {
	m.actions = append(m.actions, rec)
	return nil
}

func (m *memRecorder) Flush() error {
	m.flushed++
	return nil
}

func testProfiles() []model.Profile {
	return []model.Profile{
		{ProfileID: "100", AccountInfo: model.AccountInfo{Name: "主账户"}},
		{ProfileID: "200", AccountInfo: model.AccountInfo{Name: "备用账户"}},
	}
}

func testRules() model.RulesConfig {
	rules := model.DefaultRules()
	rules.DaypartingEnabled = false
	return rules
}

func offPeakNow() time.Time {
	return time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)
}

func TestOptimizerRun_DryRun(t *testing.T) {
	platform := &fakePlatform{
		profiles: testProfiles(),
		keywords: []model.Keyword{{KeywordID: 555, Bid: 1.00}},
	}
	retriever := &fakeReportRetriever{
		rows: map[model.ReportKind][]model.PerformanceRecord{
			model.ReportKindKeywords: {{
				KeywordID:   "555",
				KeywordText: "wireless mouse",
				Impressions: 1000,
				Clicks:      20,
				Cost:        12,
				Sales:       20, // ACOS 0.60 → 高ACOS降价
			}},
		},
	}
	recorder := &memRecorder{}

	optimizer := NewOptimizer(platform, retriever, testRules()).
		WithRecorder(recorder).
		WithNow(offPeakNow)

	result, err := optimizer.Run(model.RunOptions{DryRun: true, SkipNewCampaigns: true})
	require.NoError(t, err)

	assert.Equal(t, "100", result.ProfileID, "未指定档案时取首个")
	assert.True(t, result.DryRun)
	assert.Equal(t, 1.0, result.DaypartMult)

	require.Len(t, result.BidDecisions, 1)
	assert.Equal(t, RuleHighAcos, result.BidDecisions[0].Rule)
	assert.InDelta(t, 0.85, result.BidDecisions[0].NewBid, 1e-9)

	// dry-run不推送，但审计照记
	assert.Empty(t, platform.bidUpdates)
	require.Len(t, recorder.bids, 1)
	assert.True(t, recorder.bids[0].DryRun)
	assert.Equal(t, 1, recorder.flushed)
	assert.True(t, result.NewCampaignStage.Skipped)
}

func TestOptimizerRun_LivePushesBids(t *testing.T) {
	platform := &fakePlatform{
		profiles: testProfiles(),
		keywords: []model.Keyword{{KeywordID: 555, Bid: 1.00}},
	}
	retriever := &fakeReportRetriever{
		rows: map[model.ReportKind][]model.PerformanceRecord{
			model.ReportKindKeywords: {{
				KeywordID:   "555",
				Impressions: 1000,
				Clicks:      20,
				Cost:        12,
				Sales:       20,
			}},
		},
	}

	optimizer := NewOptimizer(platform, retriever, testRules()).WithNow(offPeakNow)

	result, err := optimizer.Run(model.RunOptions{
		SkipCampaigns: true, SkipKeywords: true, SkipNewCampaigns: true,
	})
	require.NoError(t, err)

	require.Len(t, platform.bidUpdates, 1)
	assert.Equal(t, int64(555), platform.bidUpdates[0].KeywordID)
	assert.InDelta(t, 0.85, platform.bidUpdates[0].Bid, 1e-9)
	assert.Equal(t, 1, result.BidStage.Succeeded)
}

func TestOptimizerRun_MissingCurrentBidSkipsRow(t *testing.T) {
	platform := &fakePlatform{
		profiles: testProfiles(),
		keywords: nil, // 没有任何当前出价
	}
	retriever := &fakeReportRetriever{
		rows: map[model.ReportKind][]model.PerformanceRecord{
			model.ReportKindKeywords: {{
				KeywordID: "555", Impressions: 1000, Clicks: 20, Cost: 12, Sales: 20,
			}},
		},
	}

	optimizer := NewOptimizer(platform, retriever, testRules()).WithNow(offPeakNow)

	result, err := optimizer.Run(model.RunOptions{
		SkipCampaigns: true, SkipKeywords: true, SkipNewCampaigns: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.BidStage.Evaluated)
	assert.Empty(t, result.BidDecisions)
	assert.Empty(t, platform.bidUpdates)
}

func TestOptimizerRun_AuditRowPerDecisionEvenWhenPushFails(t *testing.T) {
	platform := &fakePlatform{
		profiles: testProfiles(),
		keywords: []model.Keyword{{KeywordID: 555, Bid: 1.00}},
		bidErr:   fmt.Errorf("批量接口不可用"),
	}
	retriever := &fakeReportRetriever{
		rows: map[model.ReportKind][]model.PerformanceRecord{
			model.ReportKindKeywords: {{
				KeywordID:   "555",
				Impressions: 1000,
				Clicks:      20,
				Cost:        12,
				Sales:       20,
			}},
		},
	}
	recorder := &memRecorder{}

	optimizer := NewOptimizer(platform, retriever, testRules()).
		WithRecorder(recorder).
		WithNow(offPeakNow)

	result, err := optimizer.Run(model.RunOptions{
		SkipCampaigns: true, SkipKeywords: true, SkipNewCampaigns: true,
	})
	require.NoError(t, err)

	// 推送失败不影响已生成决策的审计留痕
	require.Len(t, result.BidDecisions, 1)
	require.Len(t, recorder.bids, 1)
	assert.Equal(t, "555", recorder.bids[0].KeywordID)
	assert.Equal(t, 1, result.BidStage.Failed)
	assert.Equal(t, 0, result.BidStage.Succeeded)
}

func TestOptimizerRun_ReportFailureDegradesStage(t *testing.T) {
	platform := &fakePlatform{profiles: testProfiles()}
	retriever := &fakeReportRetriever{
		errs: map[model.ReportKind]error{
			model.ReportKindKeywords:  fmt.Errorf("报表超时"),
			model.ReportKindCampaigns: fmt.Errorf("报表超时"),
		},
	}

	optimizer := NewOptimizer(platform, retriever, testRules()).WithNow(offPeakNow)

	result, err := optimizer.Run(model.RunOptions{SkipKeywords: true, SkipNewCampaigns: true})

	// 阶段级失败降级为空结果，运行本身成功
	require.NoError(t, err)
	assert.Empty(t, result.BidDecisions)
	assert.Empty(t, result.CampaignActions)
	assert.Len(t, result.Issues, 2)
}

func TestOptimizerRun_ProfileResolution(t *testing.T) {
	t.Run("指定档案", func(t *testing.T) {
		platform := &fakePlatform{profiles: testProfiles()}
		retriever := &fakeReportRetriever{}
		optimizer := NewOptimizer(platform, retriever, testRules()).WithNow(offPeakNow)

		result, err := optimizer.Run(model.RunOptions{
			ProfileID:     "200",
			SkipBids:      true,
			SkipCampaigns: true, SkipKeywords: true, SkipNewCampaigns: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "200", result.ProfileID)
		assert.Equal(t, "备用账户", result.ProfileName)
	})

	t.Run("档案不存在即运行级致命", func(t *testing.T) {
		platform := &fakePlatform{profiles: testProfiles()}
		retriever := &fakeReportRetriever{}
		optimizer := NewOptimizer(platform, retriever, testRules()).WithNow(offPeakNow)

		_, err := optimizer.Run(model.RunOptions{ProfileID: "999"})
		require.Error(t, err)
		var fatal *FatalError
		assert.ErrorAs(t, err, &fatal)
	})

	t.Run("无可用档案即运行级致命", func(t *testing.T) {
		platform := &fakePlatform{}
		retriever := &fakeReportRetriever{}
		optimizer := NewOptimizer(platform, retriever, testRules()).WithNow(offPeakNow)

		_, err := optimizer.Run(model.RunOptions{})
		require.Error(t, err)
		var fatal *FatalError
		assert.ErrorAs(t, err, &fatal)
	})
}

func TestOptimizerRun_CampaignStageRecordsActions(t *testing.T) {
	platform := &fakePlatform{profiles: testProfiles()}
	retriever := &fakeReportRetriever{
		rows: map[model.ReportKind][]model.PerformanceRecord{
			model.ReportKindCampaigns: {{
				CampaignID:     "301",
				CampaignName:   "高ACOS活动",
				CampaignStatus: "enabled",
				Impressions:    1000,
				Clicks:         20,
				Cost:           12,
				Sales:          20,
			}},
		},
	}
	recorder := &memRecorder{}

	optimizer := NewOptimizer(platform, retriever, testRules()).
		WithRecorder(recorder).
		WithNow(offPeakNow)

	result, err := optimizer.Run(model.RunOptions{
		SkipBids: true, SkipKeywords: true, SkipNewCampaigns: true,
	})
	require.NoError(t, err)

	require.Len(t, result.CampaignActions, 1)
	assert.True(t, result.CampaignActions[0].Applied)
	assert.Equal(t, model.CampaignStatePaused, platform.stateUpdates["301"])

	require.Len(t, recorder.actions, 1)
	assert.Equal(t, "301", recorder.actions[0].CampaignID)
	assert.Equal(t, "0.6000", recorder.actions[0].Acos)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.85, round2(0.8500000001))
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 1.24, round2(1.236))
}
