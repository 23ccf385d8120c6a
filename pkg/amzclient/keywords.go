// pkg/amzclient/keywords.go
package amzclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"BidRadar/pkg/model"
)

// ListKeywords 获取关键词，adGroupID为空时返回全部
func (c *Client) ListKeywords(profileID, adGroupID string) ([]model.Keyword, error) {
	query := url.Values{}
	if adGroupID != "" {
		query.Set("adGroupIdFilter", adGroupID)
	}

	var keywords []model.Keyword
	if err := c.do(http.MethodGet, "/v2/sp/keywords", profileID, query, nil, &keywords); err != nil {
		return nil, fmt.Errorf("获取关键词失败: %w", err)
	}
	return keywords, nil
}

// suggestedKeywordsResponse 推荐关键词响应
type suggestedKeywordsResponse struct {
	SuggestedKeywords []model.SuggestedKeyword `json:"suggestedKeywords"`
}

// GetKeywordSuggestions 获取广告组的推荐关键词
func (c *Client) GetKeywordSuggestions(profileID, adGroupID string, maxCount int) ([]model.SuggestedKeyword, error) {
	query := url.Values{}
	query.Set("maxNumSuggestions", strconv.Itoa(maxCount))

	path := fmt.Sprintf("/v2/sp/adGroups/%s/suggested/keywords", adGroupID)

	var resp suggestedKeywordsResponse
	if err := c.do(http.MethodGet, path, profileID, query, nil, &resp); err != nil {
		return nil, fmt.Errorf("获取推荐关键词失败: %w", err)
	}
	return resp.SuggestedKeywords, nil
}

// CreateKeywords 批量创建关键词
func (c *Client) CreateKeywords(profileID string, candidates []model.KeywordCandidate) ([]model.MutationResult, error) {
	var results []model.MutationResult
	if err := c.do(http.MethodPost, "/v2/sp/keywords", profileID, nil, candidates, &results); err != nil {
		return nil, fmt.Errorf("批量创建关键词失败: %w", err)
	}
	return results, nil
}

// UpdateKeywordBids 批量更新关键词出价
func (c *Client) UpdateKeywordBids(profileID string, updates []model.KeywordBidUpdate) ([]model.MutationResult, error) {
	var results []model.MutationResult
	if err := c.do(http.MethodPut, "/v2/sp/keywords", profileID, nil, updates, &results); err != nil {
		return nil, fmt.Errorf("批量更新出价失败: %w", err)
	}
	return results, nil
}
