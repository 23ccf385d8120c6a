// pkg/amzclient/productads.go
package amzclient

import (
	"fmt"
	"net/http"
	"net/url"

	"BidRadar/pkg/model"
)

// ListProductAds 获取商品广告，adGroupID为空时返回全部
func (c *Client) ListProductAds(profileID, adGroupID string) ([]model.ProductAd, error) {
	query := url.Values{}
	if adGroupID != "" {
		query.Set("adGroupIdFilter", adGroupID)
	}

	var ads []model.ProductAd
	if err := c.do(http.MethodGet, "/v2/sp/productAds", profileID, query, nil, &ads); err != nil {
		return nil, fmt.Errorf("获取商品广告失败: %w", err)
	}
	return ads, nil
}

// CreateProductAd 创建商品广告
func (c *Client) CreateProductAd(profileID string, campaignID, adGroupID int64, sku, asin string) error {
	payload := []map[string]interface{}{
		{
			"campaignId": campaignID,
			"adGroupId":  adGroupID,
			"sku":        sku,
			"asin":       asin,
			"state":      string(model.CampaignStateEnabled),
		},
	}

	var results []model.MutationResult
	if err := c.do(http.MethodPost, "/v2/sp/productAds", profileID, nil, payload, &results); err != nil {
		return fmt.Errorf("创建商品广告 %s 失败: %w", asin, err)
	}
	return nil
}
