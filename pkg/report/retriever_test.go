package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BidRadar/pkg/model"
)

// fakeClock 手动推进的时钟，Sleep直接加时间
type fakeClock struct {
	current time.Time
	sleeps  int
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Sleep(d time.Duration) {
	c.current = c.current.Add(d)
	c.sleeps++
}

// fakeFetcher 按轮询次数返回预设状态序列
type fakeFetcher struct {
	reportID  string
	createErr error
	statuses  []model.ReportStatus
	statusErr error
	payload   []byte
	fetchErr  error
	polls     int
}

func (f *fakeFetcher) CreateReport(profileID string, kind model.ReportKind, lookbackDays int) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.reportID, nil
}

func (f *fakeFetcher) GetReportStatus(profileID, reportID string) (*model.ReportStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	i := f.polls
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.polls++
	status := f.statuses[i]
	return &status, nil
}

func (f *fakeFetcher) FetchReportPayload(location string) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.payload, nil
}

const sampleCSV = "campaignId,keywordId,keywordText,impressions,clicks,cost,attributedSales14d\n" +
	"1,555,wireless mouse,1000,20,12.5,30.0\n"

func TestRetrieve_SuccessAfterPending(t *testing.T) {
	fetcher := &fakeFetcher{
		reportID: "r-1",
		statuses: []model.ReportStatus{
			{Status: model.ReportStatusInProgress},
			{Status: model.ReportStatusInProgress},
			{Status: model.ReportStatusSuccess, Location: "https://example.com/r-1"},
		},
		payload: []byte(sampleCSV),
	}
	clock := &fakeClock{current: time.Unix(0, 0)}

	retriever := NewRetriever(fetcher, 5*time.Second, 180*time.Second).WithClock(clock)

	records, err := retriever.Retrieve("p1", model.ReportKindKeywords, 14)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "555", records[0].KeywordID)
	assert.Equal(t, 20, records[0].Clicks)
	assert.Equal(t, 2, clock.sleeps, "两次PENDING各等待一个间隔")
}

func TestRetrieve_Failure(t *testing.T) {
	fetcher := &fakeFetcher{
		reportID: "r-2",
		statuses: []model.ReportStatus{{Status: model.ReportStatusFailure}},
	}
	clock := &fakeClock{current: time.Unix(0, 0)}

	retriever := NewRetriever(fetcher, 5*time.Second, 180*time.Second).WithClock(clock)

	_, err := retriever.Retrieve("p1", model.ReportKindKeywords, 14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "r-2")
	assert.Equal(t, 0, clock.sleeps, "终态失败立即返回")
}

func TestRetrieve_Cancelled(t *testing.T) {
	fetcher := &fakeFetcher{
		reportID: "r-3",
		statuses: []model.ReportStatus{{Status: model.ReportStatusCancelled}},
	}
	clock := &fakeClock{current: time.Unix(0, 0)}

	retriever := NewRetriever(fetcher, 5*time.Second, 180*time.Second).WithClock(clock)

	_, err := retriever.Retrieve("p1", model.ReportKindKeywords, 14)
	require.Error(t, err)
}

func TestRetrieve_Timeout(t *testing.T) {
	fetcher := &fakeFetcher{
		reportID: "r-4",
		statuses: []model.ReportStatus{{Status: model.ReportStatusInProgress}},
	}
	clock := &fakeClock{current: time.Unix(0, 0)}

	retriever := NewRetriever(fetcher, 5*time.Second, 30*time.Second).WithClock(clock)

	_, err := retriever.Retrieve("p1", model.ReportKindKeywords, 14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "超时")
	// 截止30秒、间隔5秒：最多6次轮询
	assert.Equal(t, 6, fetcher.polls)
}

func TestRetrieve_CreateError(t *testing.T) {
	fetcher := &fakeFetcher{createErr: fmt.Errorf("403")}
	retriever := NewRetriever(fetcher, time.Second, time.Minute).
		WithClock(&fakeClock{current: time.Unix(0, 0)})

	_, err := retriever.Retrieve("p1", model.ReportKindCampaigns, 14)
	require.Error(t, err)
	assert.Equal(t, 0, fetcher.polls, "创建失败不进入轮询")
}

func TestRetrieve_PollNetworkErrorNotRetried(t *testing.T) {
	fetcher := &fakeFetcher{
		reportID:  "r-5",
		statusErr: fmt.Errorf("连接重置"),
	}
	clock := &fakeClock{current: time.Unix(0, 0)}

	retriever := NewRetriever(fetcher, 5*time.Second, 180*time.Second).WithClock(clock)

	_, err := retriever.Retrieve("p1", model.ReportKindKeywords, 14)
	require.Error(t, err)
	assert.Equal(t, 0, clock.sleeps, "轮询网络错误立即返回")
}

func TestRetrieve_SuccessWithoutLocation(t *testing.T) {
	fetcher := &fakeFetcher{
		reportID: "r-6",
		statuses: []model.ReportStatus{{Status: model.ReportStatusSuccess}},
	}
	retriever := NewRetriever(fetcher, time.Second, time.Minute).
		WithClock(&fakeClock{current: time.Unix(0, 0)})

	_, err := retriever.Retrieve("p1", model.ReportKindKeywords, 14)
	require.Error(t, err)
}

func TestNewRetriever_Defaults(t *testing.T) {
	r := NewRetriever(&fakeFetcher{}, 0, 0)
	assert.Equal(t, 5*time.Second, r.interval)
	assert.Equal(t, 180*time.Second, r.deadline)
}
