// pkg/model/decision.go
package model

import (
	"encoding/json"
	"math"
	"time"
)

// BidDecision 出价调整决策，仅在规则命中时产生
type BidDecision struct {
	KeywordID   string      `json:"keyword_id"`
	KeywordText string      `json:"keyword_text"`
	CurrentBid  float64     `json:"current_bid"`
	NewBid      float64     `json:"new_bid"`
	Rule        string      `json:"rule"`
	Kpi         KpiSnapshot `json:"kpi"`
	DaypartMult float64     `json:"daypart_mult"`
}

// Delta 出价变化量
func (d BidDecision) Delta() float64 {
	return d.NewBid - d.CurrentBid
}

// CampaignAction 活动状态变更动作，仅在新旧状态不同时产生
type CampaignAction struct {
	CampaignID string        `json:"campaign_id"`
	PrevState  CampaignState `json:"prev_state"`
	NewState   CampaignState `json:"new_state"`
	Reason     string        `json:"reason"`
	Acos       float64       `json:"acos"`
	Applied    bool          `json:"applied"` // dry-run 或推送失败时为 false
}

// MarshalJSON ACOS的+Inf哨兵序列化为字符串"inf"
func (a CampaignAction) MarshalJSON() ([]byte, error) {
	type alias CampaignAction
	if !math.IsInf(a.Acos, 1) {
		return json.Marshal(alias(a))
	}
	return json.Marshal(struct {
		alias
		Acos string `json:"acos"`
	}{alias(a), "inf"})
}

// KeywordCandidate 待添加的新关键词候选
type KeywordCandidate struct {
	CampaignID  int64     `json:"campaignId"`
	AdGroupID   int64     `json:"adGroupId"`
	KeywordText string    `json:"keywordText"`
	MatchType   MatchType `json:"matchType"`
	State       string    `json:"state"`
	Bid         float64   `json:"bid"`
}

// CreatedCampaign 自动创建的新活动结果
type CreatedCampaign struct {
	ASIN         string  `json:"asin"`
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	AdGroupID    string  `json:"ad_group_id"`
	DailyBudget  float64 `json:"daily_budget"`
	Status       string  `json:"status"`
}

// RunOptions 单次优化运行的入口参数
type RunOptions struct {
	ProfileID        string `json:"profile_id"`
	DryRun           bool   `json:"dry_run"`
	SkipBids         bool   `json:"skip_bids"`
	SkipCampaigns    bool   `json:"skip_campaigns"`
	SkipKeywords     bool   `json:"skip_keywords"`
	SkipNewCampaigns bool   `json:"skip_new_campaigns"`
}

// StageStats 单个阶段的成功/失败计数
type StageStats struct {
	Evaluated int  `json:"evaluated"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Skipped   bool `json:"skipped"`
}

// RunResult 单次优化运行的结构化结果
type RunResult struct {
	RunID            string             `json:"run_id"`
	ProfileID        string             `json:"profile_id"`
	ProfileName      string             `json:"profile_name"`
	DryRun           bool               `json:"dry_run"`
	StartedAt        time.Time          `json:"started_at"`
	FinishedAt       time.Time          `json:"finished_at"`
	DaypartMult      float64            `json:"daypart_mult"`
	BidStage         StageStats         `json:"bid_stage"`
	CampaignStage    StageStats         `json:"campaign_stage"`
	KeywordStage     StageStats         `json:"keyword_stage"`
	NewCampaignStage StageStats         `json:"new_campaign_stage"`
	BidDecisions     []BidDecision      `json:"bid_decisions"`
	CampaignActions  []CampaignAction   `json:"campaign_actions"`
	AddedKeywords    []KeywordCandidate `json:"added_keywords"`
	CreatedCampaigns []CreatedCampaign  `json:"created_campaigns"`
	Issues           []string           `json:"issues,omitempty"`
}
