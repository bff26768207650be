package merchant

import (
	"regexp"
	"strconv"
	"strings"

	"ChallengeCheckout/internal/model"
)

// 上游字段形状不稳定：同一逻辑属性可能出现在多个容器里。
// 每个属性维护一张候选路径表，按序取第一个非空值，不做逐字段分支判断。
var (
	dailyLossPaths = []string{
		"permittedDailyLoss",
		"settings.permittedDailyLoss",
		"rules.permittedDailyLoss",
		"conditions.permittedDailyLoss",
		"metrics.permittedDailyLoss",
		"settings.dailyLoss",
		"rules.dailyLoss",
		"conditions.dailyLoss",
		"settings.maxDailyLoss",
		"rules.maxDailyLoss",
		"conditions.maxDailyLoss",
	}
	totalLossPaths = []string{
		"permittedTotalLoss",
		"settings.permittedTotalLoss",
		"rules.permittedTotalLoss",
		"conditions.permittedTotalLoss",
		"metrics.permittedTotalLoss",
		"settings.totalLoss",
		"rules.totalLoss",
		"conditions.totalLoss",
		"settings.maxDrawdown",
		"rules.maxDrawdown",
		"conditions.maxDrawdown",
	}
	profitableDaysPaths = []string{
		"profitableDays",
		"settings.profitableDays",
		"rules.profitableDays",
		"conditions.profitableDays",
		"settings.minTradingDays",
		"rules.minTradingDays",
		"conditions.minTradingDays",
		"settings.minimumTradingDays",
		"rules.minimumTradingDays",
		"conditions.minimumTradingDays",
	}
	durationPaths = []string{
		"duration",
		"settings.duration",
		"rules.duration",
		"conditions.duration",
		"metrics.duration",
		"settings.tradingPeriod",
		"rules.tradingPeriod",
		"conditions.tradingPeriod",
		"settings.tradingPeriodDays",
		"rules.tradingPeriodDays",
		"conditions.tradingPeriodDays",
	}
	pricePaths = []string{"price", "oneTimeFee"}

	// 下单响应里 redirectUrl 的已知出现位置（老格式在前）
	redirectURLPaths = []string{
		"data.response.outputData.redirectUrl",
		"data.redirectUrl",
		"data.outputData.redirectUrl",
		"redirectUrl",
	}
)

// pickPath 在解码后的JSON对象里按候选路径表取第一个非空值，全部缺失返回 nil
func pickPath(obj map[string]any, paths []string) any {
	for _, p := range paths {
		cur := any(obj)
		ok := true
		for _, seg := range strings.Split(p, ".") {
			m, isMap := cur.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			cur, ok = m[seg]
			if !ok || cur == nil {
				ok = false
				break
			}
		}
		if ok && cur != nil {
			return cur
		}
	}
	return nil
}

var nonNumericRe = regexp.MustCompile(`[^\d.-]`)

// toNumberOrNull 宽松数字转换：字符串先剥掉货币符号等非数字字符，转不动就返回 nil
func toNumberOrNull(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		cleaned := nonNumericRe.ReplaceAllString(n, "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// normPlatform 平台名归一化：含 MT5 → MT5，含 MATCH → MATCHTRADER，其余整体大写
func normPlatform(t string) string {
	v := strings.ToUpper(t)
	if strings.Contains(v, "MT5") {
		return "MT5"
	}
	if strings.Contains(v, "MATCH") {
		return "MATCHTRADER"
	}
	return v
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// mapChainItem 把上游 chain 元素映射为目录行。除基础字段外，规则属性全部走候选路径表
func mapChainItem(item map[string]any) model.CatalogVariant {
	capital := toNumberOrNull(pickPath(item, []string{"initialBalance"}))
	variant := model.CatalogVariant{
		ID:              asString(pickPath(item, []string{"id"})),
		ChallengeTypeID: asString(pickPath(item, []string{"challengeTypeId"})),
		Title:           asString(pickPath(item, []string{"title"})),
		Platform:        normPlatform(asString(pickPath(item, []string{"accountType.platformInfo.type"}))),
		Challenge:       asString(pickPath(item, []string{"category"})),
		Price:           toNumberOrNull(pickPath(item, pricePaths)),
	}
	if capital != nil {
		variant.Capital = *capital
	}
	variant.PermittedDailyLoss = pickPath(item, dailyLossPaths)
	variant.PermittedTotalLoss = pickPath(item, totalLossPaths)
	variant.ProfitableDays = toNumberOrNull(pickPath(item, profitableDaysPaths))
	variant.Duration = toNumberOrNull(pickPath(item, durationPaths))
	return variant
}
