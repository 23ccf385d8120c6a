// pkg/report/retriever.go
package report

import (
	"fmt"
	"log"
	"time"

	"BidRadar/pkg/model"
)

// State 报表获取状态机状态
type State string

const (
	StateRequested State = "REQUESTED"
	StatePending   State = "PENDING"
	StateSuccess   State = "SUCCESS"
	StateFailure   State = "FAILURE"
	StateTimeout   State = "TIMEOUT"
)

// Clock 可注入的时钟，便于测试轮询路径
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// realClock 真实时钟
type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Fetcher 报表获取依赖的平台能力
type Fetcher interface {
	CreateReport(profileID string, kind model.ReportKind, lookbackDays int) (string, error)
	GetReportStatus(profileID, reportID string) (*model.ReportStatus, error)
	FetchReportPayload(location string) ([]byte, error)
}

// Retriever 异步报表获取器：请求、轮询直到就绪、下载并解码
type Retriever struct {
	fetcher  Fetcher
	interval time.Duration
	deadline time.Duration
	clock    Clock
}

// NewRetriever 创建报表获取器
func NewRetriever(fetcher Fetcher, interval, deadline time.Duration) *Retriever {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if deadline <= 0 {
		deadline = 180 * time.Second
	}
	return &Retriever{
		fetcher:  fetcher,
		interval: interval,
		deadline: deadline,
		clock:    realClock{},
	}
}

// WithClock 替换时钟实现，测试用
func (r *Retriever) WithClock(clock Clock) *Retriever {
	r.clock = clock
	return r
}

// Retrieve 获取一份绩效报表并解码为绩效行
// 任一环节失败仅对本报表致命，调用方以空结果继续本次运行
func (r *Retriever) Retrieve(profileID string, kind model.ReportKind, lookbackDays int) ([]model.PerformanceRecord, error) {
	// REQUESTED: 发起报表创建，拿不到报表ID即失败
	reportID, err := r.fetcher.CreateReport(profileID, kind, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("请求%s报表失败: %w", kind, err)
	}
	log.Printf("报表 %s 已请求 (类型: %s)", reportID, kind)

	// PENDING: 固定间隔轮询直到就绪或超过截止时间
	location, err := r.poll(profileID, reportID)
	if err != nil {
		return nil, err
	}

	// SUCCESS: 下载并解码
	payload, err := r.fetcher.FetchReportPayload(location)
	if err != nil {
		return nil, fmt.Errorf("下载报表 %s 失败: %w", reportID, err)
	}

	records, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("解码报表 %s 失败: %w", reportID, err)
	}

	log.Printf("报表 %s 下载完成，共 %d 行", reportID, len(records))
	return records, nil
}

// poll 轮询报表状态，返回下载地址
func (r *Retriever) poll(profileID, reportID string) (string, error) {
	deadline := r.clock.Now().Add(r.deadline)

	for r.clock.Now().Before(deadline) {
		status, err := r.fetcher.GetReportStatus(profileID, reportID)
		if err != nil {
			// 轮询中的网络错误不做迭代内重试
			return "", fmt.Errorf("轮询报表 %s 失败: %w", reportID, err)
		}

		switch status.Status {
		case model.ReportStatusSuccess:
			if status.Location == "" {
				return "", fmt.Errorf("报表 %s 就绪但未返回下载地址", reportID)
			}
			return status.Location, nil
		case model.ReportStatusFailure, model.ReportStatusCancelled:
			return "", fmt.Errorf("报表 %s 生成失败: 状态 %s", reportID, status.Status)
		}

		r.clock.Sleep(r.interval)
	}

	return "", fmt.Errorf("轮询报表 %s 超时 (截止 %s)", reportID, r.deadline)
}
