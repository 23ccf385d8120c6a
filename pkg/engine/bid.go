// pkg/engine/bid.go
package engine

import "BidRadar/pkg/model"

// 调价规则名称，按级联顺序
const (
	RuleLowCtr     = "low_ctr"
	RuleNoSales    = "no_sales"
	RuleHighAcos   = "high_acos"
	RuleLowAcos    = "low_acos"
	RuleDayparting = "dayparting"
)

// DeadBand 出价变化死区，低于该幅度的调整不推送，避免舍入噪声反复改价
const DeadBand = 0.01

// bidRule 单条调价规则：谓词命中即执行动作，级联首个命中者生效
type bidRule struct {
	name   string
	match  func(rules model.RulesConfig, kpi model.KpiSnapshot, daypartMult float64) bool
	adjust func(rules model.RulesConfig, currentBid, daypartMult float64) float64
}

// 规则级联，严格按序求值，先命中先生效，不叠加
var bidRules = []bidRule{
	{
		// CTR过低且点击量达标 → 降价
		name: RuleLowCtr,
		match: func(r model.RulesConfig, k model.KpiSnapshot, _ float64) bool {
			return k.Ctr < r.MinCtr && k.Clicks >= r.MinClicks
		},
		adjust: downAdjust,
	},
	{
		// 有足够点击仍无销售 → 降价
		name: RuleNoSales,
		match: func(r model.RulesConfig, k model.KpiSnapshot, _ float64) bool {
			return k.Sales <= 0 && k.Clicks >= r.MinClicks
		},
		adjust: downAdjust,
	},
	{
		// ACOS过高 → 降价
		name: RuleHighAcos,
		match: func(r model.RulesConfig, k model.KpiSnapshot, _ float64) bool {
			return k.Acos > r.HighAcos
		},
		adjust: downAdjust,
	},
	{
		// ACOS良好且有销售 → 提价
		name: RuleLowAcos,
		match: func(r model.RulesConfig, k model.KpiSnapshot, _ float64) bool {
			return k.Acos < r.LowAcos && k.Sales > 0
		},
		adjust: func(r model.RulesConfig, bid, mult float64) float64 {
			return bid * (1 + r.UpPct) * mult
		},
	},
	{
		// 以上均未命中时仅透传分时段乘数
		name: RuleDayparting,
		match: func(_ model.RulesConfig, _ model.KpiSnapshot, mult float64) bool {
			return mult != 1.0
		},
		adjust: func(_ model.RulesConfig, bid, mult float64) float64 {
			return bid * mult
		},
	},
}

// downAdjust 降价动作
func downAdjust(r model.RulesConfig, bid, mult float64) float64 {
	return bid * (1 - r.DownPct) * mult
}

// DecideBid 调价决策级联
// 返回新出价与命中规则名；ok=false 表示保持不变
// 数据不足守卫优先于所有规则：点击与花费同时低于门槛时不做任何决策
// 注意守卫是双低才拦截，高花费少点击会绕过守卫，这一不对称按原始语义保留
func DecideBid(rules model.RulesConfig, kpi model.KpiSnapshot, currentBid, daypartMult float64) (float64, string, bool) {
	if kpi.Clicks < rules.MinClicks && kpi.Cost < rules.MinSpend {
		return 0, "", false
	}

	for _, rule := range bidRules {
		if rule.match(rules, kpi, daypartMult) {
			return Clamp(rule.adjust(rules, currentBid, daypartMult), rules.MinBid, rules.MaxBid), rule.name, true
		}
	}

	return 0, "", false
}

// Clamp 将出价限制在[lo, hi]区间内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
