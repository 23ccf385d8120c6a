// pkg/audit/recorder.go
package audit

import (
	"BidRadar/pkg/model"
)

// Recorder 审计落盘能力：出价审计与活动动作历史，只追加
type Recorder interface {
	RecordBid(rec model.AuditRecord) error
	RecordAction(rec model.CampaignActionRecord) error
	Flush() error
}

// NopRecorder 空实现
type NopRecorder struct{}

func (NopRecorder) RecordBid(model.AuditRecord) error             { return nil }
func (NopRecorder) RecordAction(model.CampaignActionRecord) error { return nil }
func (NopRecorder) Flush() error                                  { return nil }

// MultiRecorder 将记录分发到多个下游
type MultiRecorder struct {
	recorders []Recorder
}

// NewMultiRecorder 组合多个记录器
func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	return &MultiRecorder{recorders: recorders}
}

// RecordBid 逐个下游记录，首个错误返回
func (m *MultiRecorder) RecordBid(rec model.AuditRecord) error {
	for _, r := range m.recorders {
		if err := r.RecordBid(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordAction 逐个下游记录，首个错误返回
func (m *MultiRecorder) RecordAction(rec model.CampaignActionRecord) error {
	for _, r := range m.recorders {
		if err := r.RecordAction(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush 逐个下游落盘
func (m *MultiRecorder) Flush() error {
	for _, r := range m.recorders {
		if err := r.Flush(); err != nil {
			return err
		}
	}
	return nil
}
