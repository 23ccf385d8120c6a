// pkg/model/audit.go
package model

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRecord 出价决策审计记录，只追加不修改
type AuditRecord struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	RunID       string    `gorm:"type:uuid;index" json:"run_id"`
	ProfileID   string    `gorm:"type:varchar(32);index" json:"profile_id"`
	KeywordID   string    `gorm:"type:varchar(32);index" json:"keyword_id"`
	KeywordText string    `json:"keyword_text"`
	OldBid      float64   `gorm:"type:decimal(10,2)" json:"old_bid"`
	NewBid      float64   `gorm:"type:decimal(10,2)" json:"new_bid"`
	Change      float64   `gorm:"type:decimal(10,2)" json:"change"`
	Ctr         float64   `gorm:"type:decimal(10,4)" json:"ctr"`
	Acos        float64   `gorm:"-" json:"-"` // +Inf 哨兵无法落库，序列化走 AcosValue
	AcosValue   string    `gorm:"column:acos;type:varchar(16)" json:"acos"`
	Clicks      int       `json:"clicks"`
	Cost        float64   `gorm:"type:decimal(10,2)" json:"cost"`
	Sales       float64   `gorm:"type:decimal(10,2)" json:"sales"`
	DaypartMult float64   `gorm:"type:decimal(6,2)" json:"daypart_mult"`
	DryRun      bool      `json:"dry_run"`
	Rule        string    `gorm:"type:varchar(40)" json:"rule"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName 自定义表名
func (AuditRecord) TableName() string {
	return "bid_audit_records"
}

// FormatAcos ACOS的审计表示，+Inf 输出显式哨兵 "inf"
func FormatAcos(acos float64) string {
	if math.IsInf(acos, 1) {
		return "inf"
	}
	return strconv.FormatFloat(acos, 'f', 4, 64)
}

// CampaignActionRecord 活动状态变更历史，落库留存
type CampaignActionRecord struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	RunID      string    `gorm:"type:uuid;index" json:"run_id"`
	ProfileID  string    `gorm:"type:varchar(32);index" json:"profile_id"`
	CampaignID string    `gorm:"type:varchar(32);index" json:"campaign_id"`
	PrevState  string    `gorm:"type:varchar(16)" json:"prev_state"`
	NewState   string    `gorm:"type:varchar(16)" json:"new_state"`
	Reason     string    `gorm:"type:text" json:"reason"`
	Acos       string    `gorm:"type:varchar(16)" json:"acos"`
	Applied    bool      `json:"applied"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (c *CampaignActionRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName 自定义表名
func (CampaignActionRecord) TableName() string {
	return "campaign_action_records"
}
