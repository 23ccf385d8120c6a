package audit

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BidRadar/pkg/model"
)

func TestCSVRecorder_FlushWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	recorder := NewCSVRecorder(dir).WithNow(func() time.Time { return now })

	require.NoError(t, recorder.RecordBid(model.AuditRecord{
		KeywordID:   "555",
		KeywordText: "wireless mouse",
		OldBid:      1.00,
		NewBid:      0.85,
		Change:      -0.15,
		Ctr:         0.02,
		Acos:        math.Inf(1),
		AcosValue:   "inf",
		Clicks:      20,
		Cost:        12.5,
		Sales:       0,
		DaypartMult: 1.0,
		Rule:        "no_sales",
		DryRun:      true,
		CreatedAt:   now,
	}))
	require.NoError(t, recorder.Flush())

	path := filepath.Join(dir, "bid_audit_20260314_103000.csv")
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "555", rows[1][1])
	assert.Equal(t, "0.85", rows[1][4])
	assert.Equal(t, "-0.15", rows[1][5])
	assert.Equal(t, "inf", rows[1][7])
	assert.Equal(t, "no_sales", rows[1][12])
	assert.Equal(t, "true", rows[1][13])
}

func TestCSVRecorder_EmptyFlushWritesNothing(t *testing.T) {
	dir := t.TempDir()
	recorder := NewCSVRecorder(dir)

	require.NoError(t, recorder.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "无记录时不生成文件")
}

func TestCSVRecorder_FlushClearsBuffer(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	recorder := NewCSVRecorder(dir).WithNow(func() time.Time { return now })

	require.NoError(t, recorder.RecordBid(model.AuditRecord{KeywordID: "1", CreatedAt: now}))
	require.NoError(t, recorder.Flush())

	// 再次Flush不应重复写出
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, recorder.Flush())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMultiRecorder_FansOut(t *testing.T) {
	a := NewCSVRecorder(t.TempDir())
	b := NewCSVRecorder(t.TempDir())
	multi := NewMultiRecorder(a, b)

	require.NoError(t, multi.RecordBid(model.AuditRecord{KeywordID: "1"}))
	assert.Len(t, a.rows, 1)
	assert.Len(t, b.rows, 1)
}
