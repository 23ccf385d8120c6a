package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"BidRadar/pkg/model"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.25, Clamp(0.10, 0.25, 5.00))
	assert.Equal(t, 5.00, Clamp(7.30, 0.25, 5.00))
	assert.Equal(t, 1.50, Clamp(1.50, 0.25, 5.00))
}

func TestDecideBid_InsufficientDataGuard(t *testing.T) {
	rules := model.DefaultRules()

	// 双低：点击与花费都低于门槛 → 不决策
	kpi := model.KpiSnapshot{Clicks: 5, Cost: 2.0, Acos: math.Inf(1)}
	_, _, fired := DecideBid(rules, kpi, 1.00, 1.0)
	assert.False(t, fired)

	// 高花费少点击绕过守卫，可触发无销售规则之外的ACOS规则
	kpi = model.KpiSnapshot{Clicks: 5, Cost: 20.0, Acos: math.Inf(1)}
	newBid, rule, fired := DecideBid(rules, kpi, 1.00, 1.0)
	assert.True(t, fired)
	assert.Equal(t, RuleHighAcos, rule)
	assert.InDelta(t, 0.85, newBid, 1e-9)
}

func TestDecideBid_Cascade(t *testing.T) {
	rules := model.DefaultRules()

	t.Run("低CTR降价", func(t *testing.T) {
		kpi := model.KpiSnapshot{Ctr: 0.001, Clicks: 20, Cost: 10, Sales: 30, Acos: 10.0 / 30.0}
		newBid, rule, fired := DecideBid(rules, kpi, 1.00, 1.0)
		assert.True(t, fired)
		assert.Equal(t, RuleLowCtr, rule)
		assert.InDelta(t, 0.85, newBid, 1e-9)
	})

	t.Run("无销售降价", func(t *testing.T) {
		kpi := model.KpiSnapshot{Ctr: 0.01, Clicks: 15, Cost: 8, Sales: 0, Acos: math.Inf(1)}
		newBid, rule, fired := DecideBid(rules, kpi, 1.00, 1.0)
		assert.True(t, fired)
		assert.Equal(t, RuleNoSales, rule)
		assert.InDelta(t, 0.85, newBid, 1e-9)
	})

	t.Run("高ACOS降价", func(t *testing.T) {
		kpi := model.KpiSnapshot{Ctr: 0.01, Clicks: 20, Cost: 12, Sales: 20, Acos: 0.60}
		newBid, rule, fired := DecideBid(rules, kpi, 1.00, 1.0)
		assert.True(t, fired)
		assert.Equal(t, RuleHighAcos, rule)
		assert.InDelta(t, 0.85, newBid, 1e-9)
	})

	t.Run("低ACOS提价", func(t *testing.T) {
		kpi := model.KpiSnapshot{Ctr: 0.01, Clicks: 12, Cost: 6, Sales: 30, Acos: 0.20}
		newBid, rule, fired := DecideBid(rules, kpi, 0.50, 1.0)
		assert.True(t, fired)
		assert.Equal(t, RuleLowAcos, rule)
		assert.InDelta(t, 0.575, newBid, 1e-9)
	})

	t.Run("低ACOS提价叠乘分时段乘数", func(t *testing.T) {
		kpi := model.KpiSnapshot{Ctr: 0.01, Clicks: 20, Cost: 5, Sales: 50, Acos: 0.10}
		newBid, rule, fired := DecideBid(rules, kpi, 0.50, 1.15)
		assert.True(t, fired)
		assert.Equal(t, RuleLowAcos, rule)
		// 0.50 * 1.15 * 1.15 = 0.66125
		assert.InDelta(t, 0.66125, newBid, 1e-9)
	})

	t.Run("无规则命中时仅透传分时段乘数", func(t *testing.T) {
		kpi := model.KpiSnapshot{Ctr: 0.01, Clicks: 20, Cost: 8, Sales: 20, Acos: 0.40}
		newBid, rule, fired := DecideBid(rules, kpi, 1.00, 1.20)
		assert.True(t, fired)
		assert.Equal(t, RuleDayparting, rule)
		assert.InDelta(t, 1.20, newBid, 1e-9)
	})

	t.Run("无规则命中且乘数为1时不决策", func(t *testing.T) {
		kpi := model.KpiSnapshot{Ctr: 0.01, Clicks: 20, Cost: 8, Sales: 20, Acos: 0.40}
		_, _, fired := DecideBid(rules, kpi, 1.00, 1.0)
		assert.False(t, fired)
	})
}

func TestDecideBid_FirstMatchWins(t *testing.T) {
	rules := model.DefaultRules()

	// 同时满足低CTR与高ACOS，级联首个命中者（低CTR）生效，不叠加
	kpi := model.KpiSnapshot{Ctr: 0.001, Clicks: 20, Cost: 12, Sales: 20, Acos: 0.60}
	newBid, rule, fired := DecideBid(rules, kpi, 1.00, 1.0)
	assert.True(t, fired)
	assert.Equal(t, RuleLowCtr, rule)
	assert.InDelta(t, 0.85, newBid, 1e-9)
}

func TestDecideBid_ClampedToBounds(t *testing.T) {
	rules := model.DefaultRules()

	// 降价后低于下限 → 钳到下限
	kpi := model.KpiSnapshot{Ctr: 0.01, Clicks: 20, Cost: 12, Sales: 20, Acos: 0.60}
	newBid, _, fired := DecideBid(rules, kpi, 0.26, 1.0)
	assert.True(t, fired)
	assert.Equal(t, rules.MinBid, newBid)

	// 提价后高于上限 → 钳到上限
	kpi = model.KpiSnapshot{Ctr: 0.01, Clicks: 20, Cost: 5, Sales: 50, Acos: 0.10}
	newBid, _, fired = DecideBid(rules, kpi, 4.80, 1.20)
	assert.True(t, fired)
	assert.Equal(t, rules.MaxBid, newBid)
}
