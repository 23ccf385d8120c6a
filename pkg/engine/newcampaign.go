// pkg/engine/newcampaign.go
package engine

import (
	"fmt"
	"log"
	"time"

	"BidRadar/pkg/model"
)

// MaxNewCampaignsPerRun 单轮创建新活动的上限
const MaxNewCampaignsPerRun = 3

// defaultAdGroupBid 新活动广告组的默认出价
const defaultAdGroupBid = 0.50

// CampaignCreator 新活动创建依赖的平台能力
type CampaignCreator interface {
	CreateCampaign(profileID, name string, dailyBudget float64, targetingType string) (int64, error)
	CreateAdGroup(profileID string, campaignID int64, name string, defaultBid float64) (int64, error)
	CreateProductAd(profileID string, campaignID, adGroupID int64, sku, asin string) error
}

// ProductCatalog 商品目录查询：找出没有在投活动的商品
// 平台本身不提供目录，由宿主注入实现
type ProductCatalog interface {
	ProductsWithoutCampaigns(profileID string) ([]model.Product, error)
}

// CreateCampaignsForProducts 为无活动商品创建活动、广告组与商品广告
// 单个商品创建失败只记录，不中断其余商品
func CreateCampaignsForProducts(creator CampaignCreator, catalog ProductCatalog, profileID string,
	rules model.RulesConfig, dryRun bool, now func() time.Time) ([]model.CreatedCampaign, []string) {

	var created []model.CreatedCampaign
	var issues []string

	if !rules.AutoCreateCampaigns || catalog == nil {
		return created, issues
	}

	products, err := catalog.ProductsWithoutCampaigns(profileID)
	if err != nil {
		log.Printf("警告: 查询无活动商品失败: %v", err)
		issues = append(issues, fmt.Sprintf("查询无活动商品失败: %v", err))
		return created, issues
	}

	for i, product := range products {
		if i >= MaxNewCampaignsPerRun {
			break
		}

		name := product.Name
		if name == "" {
			name = fmt.Sprintf("Product %s", product.ASIN)
		}
		campaignName := fmt.Sprintf("Auto - %s - %s", name, now().Format("2006-01-02"))

		if dryRun {
			created = append(created, model.CreatedCampaign{
				ASIN:         product.ASIN,
				CampaignName: campaignName,
				DailyBudget:  rules.NewCampaignDailyBudget,
				Status:       "dry-run",
			})
			continue
		}

		result, err := createOne(creator, profileID, campaignName, product, rules)
		if err != nil {
			entityErr := &EntityError{EntityID: product.ASIN, Err: err}
			log.Printf("为商品创建活动失败: %v", entityErr)
			issues = append(issues, entityErr.Error())
			continue
		}

		created = append(created, *result)
		log.Printf("已为商品 %s 创建活动 %s", product.ASIN, result.CampaignID)
	}

	return created, issues
}

// createOne 创建活动+广告组+商品广告的完整链路
func createOne(creator CampaignCreator, profileID, campaignName string,
	product model.Product, rules model.RulesConfig) (*model.CreatedCampaign, error) {

	campaignID, err := creator.CreateCampaign(profileID, campaignName, rules.NewCampaignDailyBudget, "manual")
	if err != nil {
		return nil, err
	}

	adGroupName := fmt.Sprintf("AG - %s", product.Name)
	adGroupID, err := creator.CreateAdGroup(profileID, campaignID, adGroupName, defaultAdGroupBid)
	if err != nil {
		return nil, err
	}

	if err := creator.CreateProductAd(profileID, campaignID, adGroupID, product.SKU, product.ASIN); err != nil {
		return nil, err
	}

	return &model.CreatedCampaign{
		ASIN:         product.ASIN,
		CampaignID:   fmt.Sprintf("%d", campaignID),
		CampaignName: campaignName,
		AdGroupID:    fmt.Sprintf("%d", adGroupID),
		DailyBudget:  rules.NewCampaignDailyBudget,
		Status:       "created",
	}, nil
}
