// pkg/model/report.go
package model

// ReportKind 报表类型
type ReportKind string

const (
	ReportKindKeywords  ReportKind = "keywords"
	ReportKindCampaigns ReportKind = "campaigns"
)

// 平台侧报表状态取值
const (
	ReportStatusSuccess    = "SUCCESS"
	ReportStatusFailure    = "FAILURE"
	ReportStatusCancelled  = "CANCELLED"
	ReportStatusInProgress = "IN_PROGRESS"
)

// ReportStatus 报表生成状态
type ReportStatus struct {
	ReportID string `json:"reportId"`
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
}
