// pkg/engine/kpi.go
package engine

import (
	"math"

	"BidRadar/pkg/model"
)

// ComputeKpis 由绩效行计算KPI快照
// 纯函数，零除语义固定：
//   - impressions=0 时 ctr=0
//   - sales=0 且 cost>0 时 acos=+Inf 哨兵，绝不静默当作0
//   - sales=0 且 cost=0 时 acos=0
func ComputeKpis(record model.PerformanceRecord) model.KpiSnapshot {
	var ctr float64
	if record.Impressions > 0 {
		ctr = float64(record.Clicks) / record.Impressions
	}

	var acos float64
	switch {
	case record.Sales > 0:
		acos = record.Cost / record.Sales
	case record.Cost > 0:
		acos = math.Inf(1)
	default:
		acos = 0
	}

	return model.KpiSnapshot{
		Ctr:    ctr,
		Acos:   acos,
		Cost:   record.Cost,
		Sales:  record.Sales,
		Clicks: record.Clicks,
	}
}
