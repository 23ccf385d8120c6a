// pkg/engine/catalog.go
package engine

import (
	"fmt"

	"BidRadar/pkg/model"
)

// ProductAdLister 商品广告查询能力
type ProductAdLister interface {
	ListProductAds(profileID, adGroupID string) ([]model.ProductAd, error)
}

// PlatformCatalog 以平台在投商品广告为基准的商品目录
// 配置中给出的商品若没有在投(enabled)商品广告，视为无活动商品
type PlatformCatalog struct {
	lister   ProductAdLister
	products []model.Product
}

// NewPlatformCatalog 创建平台商品目录
func NewPlatformCatalog(lister ProductAdLister, products []model.Product) *PlatformCatalog {
	return &PlatformCatalog{
		lister:   lister,
		products: products,
	}
}

// ProductsWithoutCampaigns 找出没有在投商品广告的商品
func (c *PlatformCatalog) ProductsWithoutCampaigns(profileID string) ([]model.Product, error) {
	if len(c.products) == 0 {
		return nil, nil
	}

	ads, err := c.lister.ListProductAds(profileID, "")
	if err != nil {
		return nil, fmt.Errorf("获取商品广告失败: %w", err)
	}

	covered := make(map[string]struct{}, len(ads))
	for _, ad := range ads {
		if ad.State == model.CampaignStateEnabled {
			covered[ad.ASIN] = struct{}{}
		}
	}

	var missing []model.Product
	for _, p := range c.products {
		if _, ok := covered[p.ASIN]; !ok {
			missing = append(missing, p)
		}
	}
	return missing, nil
}
