// pkg/model/performance.go
package model

import (
	"encoding/json"
	"math"
)

// PerformanceRecord 回溯窗口内单个实体（关键词或活动）的绩效行
type PerformanceRecord struct {
	CampaignID     string  `json:"campaignId"`
	CampaignName   string  `json:"campaignName"`
	CampaignStatus string  `json:"campaignStatus"`
	AdGroupID      string  `json:"adGroupId"`
	AdGroupName    string  `json:"adGroupName"`
	KeywordID      string  `json:"keywordId"`
	KeywordText    string  `json:"keywordText"`
	MatchType      string  `json:"matchType"`
	Impressions    float64 `json:"impressions"`
	Clicks         int     `json:"clicks"`
	Cost           float64 `json:"cost"`
	Sales          float64 `json:"attributedSales14d"`
	Conversions    float64 `json:"attributedConversions14d"`
}

// KpiSnapshot 由绩效行派生的KPI，不落库
type KpiSnapshot struct {
	Ctr    float64 `json:"ctr"`
	Acos   float64 `json:"acos"` // sales=0 且 cost>0 时为 +Inf 哨兵值
	Cost   float64 `json:"cost"`
	Sales  float64 `json:"sales"`
	Clicks int     `json:"clicks"`
}

// MarshalJSON +Inf哨兵序列化为字符串"inf"，标准库拒绝编码无穷浮点数
func (k KpiSnapshot) MarshalJSON() ([]byte, error) {
	type alias KpiSnapshot
	if !math.IsInf(k.Acos, 1) {
		return json.Marshal(alias(k))
	}
	return json.Marshal(struct {
		alias
		Acos string `json:"acos"`
	}{alias(k), "inf"})
}
