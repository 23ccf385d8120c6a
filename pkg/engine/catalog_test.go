package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BidRadar/pkg/model"
)

// fakeAdLister 固定返回的商品广告列表
type fakeAdLister struct {
	ads []model.ProductAd
	err error
}

func (f *fakeAdLister) ListProductAds(profileID, adGroupID string) ([]model.ProductAd, error) {
	return f.ads, f.err
}

func TestPlatformCatalog_ProductsWithoutCampaigns(t *testing.T) {
	products := []model.Product{
		{ASIN: "A1", SKU: "S1"},
		{ASIN: "A2", SKU: "S2"},
		{ASIN: "A3", SKU: "S3"},
	}

	t.Run("在投广告覆盖的商品被排除", func(t *testing.T) {
		lister := &fakeAdLister{ads: []model.ProductAd{
			{ASIN: "A1", State: model.CampaignStateEnabled},
			{ASIN: "A2", State: model.CampaignStatePaused}, // 非在投，不算覆盖
		}}
		catalog := NewPlatformCatalog(lister, products)

		missing, err := catalog.ProductsWithoutCampaigns("p1")
		require.NoError(t, err)
		require.Len(t, missing, 2)
		assert.Equal(t, "A2", missing[0].ASIN)
		assert.Equal(t, "A3", missing[1].ASIN)
	})

	t.Run("空目录直接返回", func(t *testing.T) {
		lister := &fakeAdLister{err: fmt.Errorf("不应被调用")}
		catalog := NewPlatformCatalog(lister, nil)

		missing, err := catalog.ProductsWithoutCampaigns("p1")
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("平台查询失败透传错误", func(t *testing.T) {
		lister := &fakeAdLister{err: fmt.Errorf("503")}
		catalog := NewPlatformCatalog(lister, products)

		_, err := catalog.ProductsWithoutCampaigns("p1")
		require.Error(t, err)
	})
}
