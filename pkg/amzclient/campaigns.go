// pkg/amzclient/campaigns.go
package amzclient

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"BidRadar/pkg/model"
)

// ListCampaigns 获取所有SP广告活动
func (c *Client) ListCampaigns(profileID string) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	if err := c.do(http.MethodGet, "/v2/sp/campaigns", profileID, nil, nil, &campaigns); err != nil {
		return nil, fmt.Errorf("获取广告活动失败: %w", err)
	}
	return campaigns, nil
}

// UpdateCampaignState 更新广告活动状态
func (c *Client) UpdateCampaignState(profileID, campaignID string, state model.CampaignState) error {
	id, err := strconv.ParseInt(campaignID, 10, 64)
	if err != nil {
		return fmt.Errorf("非法的活动ID %q: %w", campaignID, err)
	}

	payload := []map[string]interface{}{
		{
			"campaignId": id,
			"state":      string(state),
		},
	}

	var results []model.MutationResult
	if err := c.do(http.MethodPut, "/v2/sp/campaigns", profileID, nil, payload, &results); err != nil {
		return fmt.Errorf("更新活动 %s 状态失败: %w", campaignID, err)
	}
	return nil
}

// CreateCampaign 创建新的SP广告活动，返回活动ID
func (c *Client) CreateCampaign(profileID, name string, dailyBudget float64, targetingType string) (int64, error) {
	if targetingType == "" {
		targetingType = "manual"
	}

	payload := []map[string]interface{}{
		{
			"name":                 name,
			"campaignType":         "sponsoredProducts",
			"targetingType":        targetingType,
			"state":                string(model.CampaignStateEnabled),
			"dailyBudget":          dailyBudget,
			"startDate":            time.Now().Format("20060102"),
			"premiumBidAdjustment": true,
		},
	}

	var results []model.MutationResult
	if err := c.do(http.MethodPost, "/v2/sp/campaigns", profileID, nil, payload, &results); err != nil {
		return 0, fmt.Errorf("创建活动 %q 失败: %w", name, err)
	}
	if len(results) == 0 || results[0].CampaignID == 0 {
		return 0, fmt.Errorf("创建活动 %q 未返回活动ID", name)
	}
	return results[0].CampaignID, nil
}
