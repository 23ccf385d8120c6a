// pkg/audit/csv.go
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"BidRadar/pkg/model"
)

// csvHeader 审计CSV列
var csvHeader = []string{
	"timestamp", "keyword_id", "keyword_text", "old_bid", "new_bid", "change",
	"ctr", "acos", "clicks", "cost", "sales", "daypart_mult", "rule", "dry_run",
}

// CSVRecorder 将出价审计写为一次运行一个的CSV文件
type CSVRecorder struct {
	dir  string
	rows []model.AuditRecord
	now  func() time.Time
}

// NewCSVRecorder 创建CSV审计记录器
func NewCSVRecorder(dir string) *CSVRecorder {
	if dir == "" {
		dir = "."
	}
	return &CSVRecorder{
		dir: dir,
		now: time.Now,
	}
}

// WithNow 替换时钟，测试用
func (r *CSVRecorder) WithNow(now func() time.Time) *CSVRecorder {
	r.now = now
	return r
}

// RecordBid 追加一条出价审计
func (r *CSVRecorder) RecordBid(rec model.AuditRecord) error {
	r.rows = append(r.rows, rec)
	return nil
}

// RecordAction 活动动作不写CSV，由数据库留存
func (r *CSVRecorder) RecordAction(model.CampaignActionRecord) error {
	return nil
}

// Flush 有记录时写出带时间戳的审计文件，随后清空缓冲
func (r *CSVRecorder) Flush() error {
	if len(r.rows) == 0 {
		return nil
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("创建审计目录失败: %w", err)
	}

	name := fmt.Sprintf("bid_audit_%s.csv", r.now().UTC().Format("20060102_150405"))
	path := filepath.Join(r.dir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("打开审计文件失败: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("写入审计表头失败: %w", err)
	}

	for _, rec := range r.rows {
		row := []string{
			rec.CreatedAt.Format(time.RFC3339),
			rec.KeywordID,
			rec.KeywordText,
			formatBid(rec.OldBid),
			formatBid(rec.NewBid),
			formatBid(rec.Change),
			strconv.FormatFloat(rec.Ctr, 'f', 4, 64),
			rec.AcosValue,
			strconv.Itoa(rec.Clicks),
			formatBid(rec.Cost),
			formatBid(rec.Sales),
			formatBid(rec.DaypartMult),
			rec.Rule,
			strconv.FormatBool(rec.DryRun),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("写入审计行失败: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("刷新审计文件失败: %w", err)
	}

	r.rows = nil
	return nil
}

// formatBid 金额统一两位小数
func formatBid(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
