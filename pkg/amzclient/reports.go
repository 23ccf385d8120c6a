// pkg/amzclient/reports.go
package amzclient

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"BidRadar/pkg/model"
)

// 各报表类型请求的指标列
const (
	keywordMetrics  = "campaignName,campaignId,adGroupName,adGroupId,keywordId,keywordText,matchType,impressions,clicks,cost,attributedConversions14d,attributedSales14d"
	campaignMetrics = "campaignName,campaignId,campaignStatus,impressions,clicks,cost,attributedConversions14d,attributedSales14d"
)

// createReportResponse 报表创建响应
type createReportResponse struct {
	ReportID string `json:"reportId"`
	Status   string `json:"status"`
}

// CreateReport 请求生成SP绩效报表，返回报表ID
func (c *Client) CreateReport(profileID string, kind model.ReportKind, lookbackDays int) (string, error) {
	// 报表日期取回溯窗口末尾（昨天）
	until := time.Now().UTC().AddDate(0, 0, -1).Format("20060102")

	var path, metrics string
	switch kind {
	case model.ReportKindKeywords:
		path = "/v2/sp/keywords/report"
		metrics = keywordMetrics
	case model.ReportKindCampaigns:
		path = "/v2/sp/campaigns/report"
		metrics = campaignMetrics
	default:
		return "", fmt.Errorf("不支持的报表类型: %s", kind)
	}

	payload := map[string]interface{}{
		"reportDate": until,
		"metrics":    metrics,
	}

	var resp createReportResponse
	if err := c.do(http.MethodPost, path, profileID, nil, payload, &resp); err != nil {
		return "", fmt.Errorf("创建%s报表失败: %w", kind, err)
	}
	if resp.ReportID == "" {
		return "", fmt.Errorf("创建%s报表未返回报表ID", kind)
	}
	return resp.ReportID, nil
}

// GetReportStatus 查询报表生成状态
func (c *Client) GetReportStatus(profileID, reportID string) (*model.ReportStatus, error) {
	var status model.ReportStatus
	path := fmt.Sprintf("/v2/reports/%s", reportID)
	if err := c.do(http.MethodGet, path, profileID, nil, nil, &status); err != nil {
		return nil, fmt.Errorf("查询报表 %s 状态失败: %w", reportID, err)
	}
	return &status, nil
}

// FetchReportPayload 下载报表原始内容
func (c *Client) FetchReportPayload(location string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("创建下载请求失败: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载报表失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载报表返回非200状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取报表内容失败: %w", err)
	}
	return body, nil
}
