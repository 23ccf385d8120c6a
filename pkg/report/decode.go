// pkg/report/decode.go
package report

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"BidRadar/pkg/model"
)

// Decode 解码报表内容为绩效行
// 容器格式按顺序尝试：ZIP压缩包 → gzip单流 → 纯文本CSV
func Decode(content []byte) ([]model.PerformanceRecord, error) {
	// 先尝试ZIP：取第一个成员
	if zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content))); err == nil {
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("ZIP压缩包为空")
		}
		f, err := zr.File[0].Open()
		if err != nil {
			return nil, fmt.Errorf("打开ZIP成员失败: %w", err)
		}
		defer f.Close()
		return decodeCSV(f)
	}

	// 再尝试gzip单流
	if gz, err := gzip.NewReader(bytes.NewReader(content)); err == nil {
		defer gz.Close()
		return decodeCSV(gz)
	}

	// 最后按纯文本处理
	return decodeCSV(bytes.NewReader(content))
}

// decodeCSV 解析分隔文本为绩效行
func decodeCSV(r io.Reader) ([]model.PerformanceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 行字段数不一致时缺失列取默认值

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var records []model.PerformanceRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取数据行失败: %w", err)
		}
		records = append(records, toRecord(index, row))
	}

	return records, nil
}

// toRecord 将一行CSV映射为绩效行，缺失列取零值
func toRecord(index map[string]int, row []string) model.PerformanceRecord {
	return model.PerformanceRecord{
		CampaignID:     field(index, row, "campaignId"),
		CampaignName:   field(index, row, "campaignName"),
		CampaignStatus: field(index, row, "campaignStatus"),
		AdGroupID:      field(index, row, "adGroupId"),
		AdGroupName:    field(index, row, "adGroupName"),
		KeywordID:      field(index, row, "keywordId"),
		KeywordText:    field(index, row, "keywordText"),
		MatchType:      field(index, row, "matchType"),
		Impressions:    floatField(index, row, "impressions"),
		Clicks:         int(floatField(index, row, "clicks")),
		Cost:           floatField(index, row, "cost"),
		Sales:          floatField(index, row, "attributedSales14d"),
		Conversions:    floatField(index, row, "attributedConversions14d"),
	}
}

// field 按列名取值，缺失返回空串
func field(index map[string]int, row []string, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// floatField 按列名取数值，缺失或非法返回0
func floatField(index map[string]int, row []string, name string) float64 {
	s := field(index, row, name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
