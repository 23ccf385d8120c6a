package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"BidRadar/pkg/model"
)

func TestDaypartMultiplier(t *testing.T) {
	rules := model.DefaultRules()

	t.Run("高峰小时取峰值乘数", func(t *testing.T) {
		assert.Equal(t, 1.20, DaypartMultiplier(rules, 9))
		assert.Equal(t, 1.20, DaypartMultiplier(rules, 20))
	})

	t.Run("非高峰小时取低谷乘数", func(t *testing.T) {
		assert.Equal(t, 0.85, DaypartMultiplier(rules, 3))
		assert.Equal(t, 0.85, DaypartMultiplier(rules, 23))
	})

	t.Run("关闭分时段时全天恒为1", func(t *testing.T) {
		rules.DaypartingEnabled = false
		for hour := 0; hour < 24; hour++ {
			assert.Equal(t, 1.0, DaypartMultiplier(rules, hour), "hour=%d", hour)
		}
	})
}
