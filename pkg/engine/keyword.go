// pkg/engine/keyword.go
package engine

import (
	"log"
	"strconv"
	"strings"

	"BidRadar/pkg/model"
)

const (
	// MaxNewKeywordsPerAdGroup 单轮单广告组新增候选上限，独立于总配额
	MaxNewKeywordsPerAdGroup = 5
	// suggestionFetchLimit 单个广告组拉取的推荐数量上限
	suggestionFetchLimit = 20
)

// KeywordExpander 关键词拓展依赖的平台能力
type KeywordExpander interface {
	ListKeywords(profileID, adGroupID string) ([]model.Keyword, error)
	GetKeywordSuggestions(profileID, adGroupID string, maxCount int) ([]model.SuggestedKeyword, error)
	CreateKeywords(profileID string, candidates []model.KeywordCandidate) ([]model.MutationResult, error)
}

// ExpandKeywords 为各广告组去重、限额、节流地添加新关键词
// 单个广告组创建失败只记录，不中断其余广告组
func ExpandKeywords(client KeywordExpander, profileID string, adGroups []model.AdGroup,
	rules model.RulesConfig, dryRun bool) ([]model.KeywordCandidate, []string) {

	var added []model.KeywordCandidate
	var issues []string

	if !rules.KeywordResearchEnabled || !rules.AutoAddKeywords {
		return added, issues
	}

	for _, adGroup := range adGroups {
		adGroupID := strconv.FormatInt(adGroup.AdGroupID, 10)

		// 现有关键词构成大小写不敏感的去重集合
		existing, err := client.ListKeywords(profileID, adGroupID)
		if err != nil {
			entityErr := &EntityError{EntityID: adGroupID, Err: err}
			log.Printf("获取广告组现有关键词失败: %v", entityErr)
			issues = append(issues, entityErr.Error())
			continue
		}

		seen := make(map[string]struct{}, len(existing))
		for _, kw := range existing {
			seen[strings.ToLower(kw.KeywordText)] = struct{}{}
		}

		// 已达配额的广告组整体跳过
		if len(existing) >= rules.MaxKeywordsPerCampaign {
			continue
		}

		suggestions, err := client.GetKeywordSuggestions(profileID, adGroupID, suggestionFetchLimit)
		if err != nil {
			log.Printf("警告: 获取广告组 %s 推荐关键词失败: %v", adGroupID, err)
			continue
		}

		candidates := collectCandidates(adGroup, suggestions, seen, rules)
		if len(candidates) == 0 {
			continue
		}

		if dryRun {
			added = append(added, candidates...)
			continue
		}

		if _, err := client.CreateKeywords(profileID, candidates); err != nil {
			entityErr := &EntityError{EntityID: adGroupID, Err: err}
			log.Printf("创建关键词批次失败: %v", entityErr)
			issues = append(issues, entityErr.Error())
			continue
		}

		added = append(added, candidates...)
		log.Printf("广告组 %s 新增 %d 个关键词", adGroupID, len(candidates))
	}

	return added, issues
}

// collectCandidates 从推荐中筛选候选：按小写文本去重，单广告组限5个
// 被接受的文本立即进入去重集合，同批后续重复推荐不会再次入选
func collectCandidates(adGroup model.AdGroup, suggestions []model.SuggestedKeyword,
	seen map[string]struct{}, rules model.RulesConfig) []model.KeywordCandidate {

	var candidates []model.KeywordCandidate
	for _, s := range suggestions {
		key := strings.ToLower(s.KeywordText)
		if s.KeywordText == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}

		matchType := s.MatchType
		if matchType == "" {
			matchType = model.MatchTypeBroad
		}

		candidates = append(candidates, model.KeywordCandidate{
			CampaignID:  adGroup.CampaignID,
			AdGroupID:   adGroup.AdGroupID,
			KeywordText: s.KeywordText,
			MatchType:   matchType,
			State:       string(model.CampaignStateEnabled),
			Bid:         rules.NewKeywordBid,
		})
		seen[key] = struct{}{}

		if len(candidates) >= MaxNewKeywordsPerAdGroup {
			break
		}
	}
	return candidates
}
