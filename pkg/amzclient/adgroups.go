// pkg/amzclient/adgroups.go
package amzclient

import (
	"fmt"
	"net/http"
	"net/url"

	"BidRadar/pkg/model"
)

// ListAdGroups 获取广告组，campaignID为空时返回全部
func (c *Client) ListAdGroups(profileID, campaignID string) ([]model.AdGroup, error) {
	query := url.Values{}
	if campaignID != "" {
		query.Set("campaignIdFilter", campaignID)
	}

	var adGroups []model.AdGroup
	if err := c.do(http.MethodGet, "/v2/sp/adGroups", profileID, query, nil, &adGroups); err != nil {
		return nil, fmt.Errorf("获取广告组失败: %w", err)
	}
	return adGroups, nil
}

// CreateAdGroup 创建广告组，返回广告组ID
func (c *Client) CreateAdGroup(profileID string, campaignID int64, name string, defaultBid float64) (int64, error) {
	payload := []map[string]interface{}{
		{
			"campaignId": campaignID,
			"name":       name,
			"defaultBid": defaultBid,
			"state":      string(model.CampaignStateEnabled),
		},
	}

	var results []model.MutationResult
	if err := c.do(http.MethodPost, "/v2/sp/adGroups", profileID, nil, payload, &results); err != nil {
		return 0, fmt.Errorf("创建广告组 %q 失败: %w", name, err)
	}
	if len(results) == 0 || results[0].AdGroupID == 0 {
		return 0, fmt.Errorf("创建广告组 %q 未返回广告组ID", name)
	}
	return results[0].AdGroupID, nil
}
