// pkg/model/rules.go
package model

import "fmt"

// RulesConfig 优化规则配置，运行开始时构建一次，之后只读
type RulesConfig struct {
	LookbackDays int     `yaml:"lookback_days" json:"lookback_days"`
	MinClicks    int     `yaml:"min_clicks" json:"min_clicks"`
	MinSpend     float64 `yaml:"min_spend" json:"min_spend"`
	TargetAcos   float64 `yaml:"target_acos" json:"target_acos"`
	HighAcos     float64 `yaml:"high_acos" json:"high_acos"`
	LowAcos      float64 `yaml:"low_acos" json:"low_acos"`
	MinCtr       float64 `yaml:"min_ctr" json:"min_ctr"`
	UpPct        float64 `yaml:"up_pct" json:"up_pct"`
	DownPct      float64 `yaml:"down_pct" json:"down_pct"`
	MinBid       float64 `yaml:"min_bid" json:"min_bid"`
	MaxBid       float64 `yaml:"max_bid" json:"max_bid"`

	// 分时段出价设置
	DaypartingEnabled bool    `yaml:"dayparting_enabled" json:"dayparting_enabled"`
	PeakHours         []int   `yaml:"peak_hours" json:"peak_hours"`
	PeakMultiplier    float64 `yaml:"peak_multiplier" json:"peak_multiplier"`
	OffPeakMultiplier float64 `yaml:"off_peak_multiplier" json:"off_peak_multiplier"`

	// 活动管理
	AutoActivateCampaigns   bool    `yaml:"auto_activate_campaigns" json:"auto_activate_campaigns"`
	AutoDeactivateCampaigns bool    `yaml:"auto_deactivate_campaigns" json:"auto_deactivate_campaigns"`
	DeactivateAcosThreshold float64 `yaml:"deactivate_acos_threshold" json:"deactivate_acos_threshold"`
	ActivateAcosThreshold   float64 `yaml:"activate_acos_threshold" json:"activate_acos_threshold"`

	// 关键词拓展
	AutoAddKeywords        bool    `yaml:"auto_add_keywords" json:"auto_add_keywords"`
	KeywordResearchEnabled bool    `yaml:"keyword_research_enabled" json:"keyword_research_enabled"`
	MaxKeywordsPerCampaign int     `yaml:"max_keywords_per_campaign" json:"max_keywords_per_campaign"`
	NewKeywordBid          float64 `yaml:"new_keyword_bid" json:"new_keyword_bid"`

	// 新活动创建
	AutoCreateCampaigns    bool    `yaml:"auto_create_campaigns" json:"auto_create_campaigns"`
	NewCampaignDailyBudget float64 `yaml:"new_campaign_daily_budget" json:"new_campaign_daily_budget"`
}

// DefaultRules 默认优化规则
func DefaultRules() RulesConfig {
	return RulesConfig{
		LookbackDays: 14,
		MinClicks:    10,
		MinSpend:     5.0,
		TargetAcos:   0.45,
		HighAcos:     0.45,
		LowAcos:      0.30,
		MinCtr:       0.003,
		UpPct:        0.15,
		DownPct:      0.15,
		MinBid:       0.25,
		MaxBid:       5.00,

		DaypartingEnabled: true,
		PeakHours:         []int{9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		PeakMultiplier:    1.20,
		OffPeakMultiplier: 0.85,

		AutoActivateCampaigns:   true,
		AutoDeactivateCampaigns: true,
		DeactivateAcosThreshold: 0.45,
		ActivateAcosThreshold:   0.45,

		AutoAddKeywords:        true,
		KeywordResearchEnabled: true,
		MaxKeywordsPerCampaign: 50,
		NewKeywordBid:          0.50,

		AutoCreateCampaigns:    true,
		NewCampaignDailyBudget: 10.00,
	}
}

// Validate 校验规则配置，运行前执行一次
func (r *RulesConfig) Validate() error {
	if r.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days 必须大于0: %d", r.LookbackDays)
	}
	if r.MinClicks < 0 {
		return fmt.Errorf("min_clicks 不能为负数: %d", r.MinClicks)
	}
	if r.MinBid <= 0 || r.MaxBid <= 0 {
		return fmt.Errorf("出价上下限必须大于0: min=%.2f max=%.2f", r.MinBid, r.MaxBid)
	}
	if r.MinBid > r.MaxBid {
		return fmt.Errorf("min_bid 不能大于 max_bid: %.2f > %.2f", r.MinBid, r.MaxBid)
	}
	if r.UpPct < 0 || r.UpPct >= 1 {
		return fmt.Errorf("up_pct 必须在 [0,1) 区间: %.2f", r.UpPct)
	}
	if r.DownPct < 0 || r.DownPct >= 1 {
		return fmt.Errorf("down_pct 必须在 [0,1) 区间: %.2f", r.DownPct)
	}
	if r.LowAcos > r.HighAcos {
		return fmt.Errorf("low_acos 不能大于 high_acos: %.2f > %.2f", r.LowAcos, r.HighAcos)
	}
	if r.ActivateAcosThreshold > r.DeactivateAcosThreshold {
		return fmt.Errorf("activate_acos_threshold 不能大于 deactivate_acos_threshold: %.2f > %.2f",
			r.ActivateAcosThreshold, r.DeactivateAcosThreshold)
	}
	for _, h := range r.PeakHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("peak_hours 包含非法小时: %d", h)
		}
	}
	if r.PeakMultiplier <= 0 || r.OffPeakMultiplier <= 0 {
		return fmt.Errorf("分时段乘数必须大于0: peak=%.2f off_peak=%.2f", r.PeakMultiplier, r.OffPeakMultiplier)
	}
	if r.MaxKeywordsPerCampaign < 0 {
		return fmt.Errorf("max_keywords_per_campaign 不能为负数: %d", r.MaxKeywordsPerCampaign)
	}
	if r.NewKeywordBid < r.MinBid || r.NewKeywordBid > r.MaxBid {
		return fmt.Errorf("new_keyword_bid 必须落在出价区间内: %.2f", r.NewKeywordBid)
	}
	if r.NewCampaignDailyBudget <= 0 {
		return fmt.Errorf("new_campaign_daily_budget 必须大于0: %.2f", r.NewCampaignDailyBudget)
	}
	return nil
}
