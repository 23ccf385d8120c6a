// pkg/model/entity.go
package model

import "encoding/json"

// CampaignState 广告活动状态枚举
type CampaignState string

const (
	CampaignStateEnabled  CampaignState = "enabled"
	CampaignStatePaused   CampaignState = "paused"
	CampaignStateArchived CampaignState = "archived"
)

// MatchType 关键词匹配类型
type MatchType string

const (
	MatchTypeBroad  MatchType = "broad"
	MatchTypePhrase MatchType = "phrase"
	MatchTypeExact  MatchType = "exact"
)

// Profile 广告账户档案
type Profile struct {
	ProfileID   string      `json:"profileId"`
	CountryCode string      `json:"countryCode"`
	Currency    string      `json:"currencyCode"`
	AccountInfo AccountInfo `json:"accountInfo"`
}

// UnmarshalJSON 平台返回的profileId是JSON数值，入站统一转为字符串
func (p *Profile) UnmarshalJSON(data []byte) error {
	type alias Profile
	aux := struct {
		ProfileID json.Number `json:"profileId"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ProfileID = aux.ProfileID.String()
	return nil
}

// AccountInfo 账户信息
type AccountInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Campaign 广告活动
type Campaign struct {
	CampaignID    int64         `json:"campaignId"`
	Name          string        `json:"name"`
	CampaignType  string        `json:"campaignType"`
	TargetingType string        `json:"targetingType"`
	State         CampaignState `json:"state"`
	DailyBudget   float64       `json:"dailyBudget"`
	StartDate     string        `json:"startDate"`
	PremiumBid    bool          `json:"premiumBidAdjustment"`
}

// AdGroup 广告组
type AdGroup struct {
	AdGroupID  int64         `json:"adGroupId"`
	CampaignID int64         `json:"campaignId"`
	Name       string        `json:"name"`
	DefaultBid float64       `json:"defaultBid"`
	State      CampaignState `json:"state"`
}

// Keyword 关键词
type Keyword struct {
	KeywordID   int64         `json:"keywordId"`
	AdGroupID   int64         `json:"adGroupId"`
	CampaignID  int64         `json:"campaignId"`
	KeywordText string        `json:"keywordText"`
	MatchType   MatchType     `json:"matchType"`
	State       CampaignState `json:"state"`
	Bid         float64       `json:"bid"`
}

// SuggestedKeyword 平台推荐关键词
type SuggestedKeyword struct {
	KeywordText string    `json:"keywordText"`
	MatchType   MatchType `json:"matchType"`
}

// ProductAd 商品广告
type ProductAd struct {
	AdID       int64         `json:"adId"`
	CampaignID int64         `json:"campaignId"`
	AdGroupID  int64         `json:"adGroupId"`
	SKU        string        `json:"sku"`
	ASIN       string        `json:"asin"`
	State      CampaignState `json:"state"`
}

// Product 商品目录条目（用于自动建活动）
type Product struct {
	ASIN string `json:"asin"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// KeywordBidUpdate 关键词出价更新
type KeywordBidUpdate struct {
	KeywordID int64   `json:"keywordId"`
	Bid       float64 `json:"bid"`
}

// MutationResult 平台批量写操作的单条结果
type MutationResult struct {
	CampaignID  int64  `json:"campaignId,omitempty"`
	AdGroupID   int64  `json:"adGroupId,omitempty"`
	KeywordID   int64  `json:"keywordId,omitempty"`
	AdID        int64  `json:"adId,omitempty"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}
