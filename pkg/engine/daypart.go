// pkg/engine/daypart.go
package engine

import "BidRadar/pkg/model"

// DaypartMultiplier 根据当前小时(0-23)返回出价乘数
// 分时段关闭时恒为1.0；开启时高峰小时取峰值乘数，其余取低谷乘数
func DaypartMultiplier(rules model.RulesConfig, hour int) float64 {
	if !rules.DaypartingEnabled {
		return 1.0
	}

	for _, h := range rules.PeakHours {
		if h == hour {
			return rules.PeakMultiplier
		}
	}
	return rules.OffPeakMultiplier
}
