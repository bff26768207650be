package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ChallengeCheckout/internal/model"
)

// Cents 金额转整数分。浮点价逐项相加会积累舍入误差，先换算成分再求和，
// 最后统一除回去。舍入规则为四舍五入（half-up，价格域内无负数）。
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// TotalCents 计算订单总价（分）。
// 基准价优先级：促销覆盖价 > 目录价 > 原始资金档位（都缺失按 0）。
// 选中的加购项价格逐个换算成分后累加，结果与加购项顺序无关。
func TotalCents(promoOverride *float64, variant *model.CatalogVariant, fallbackCapital *float64, chosenIDs []string, upsales []model.Upsale) int64 {
	var base float64
	switch {
	case promoOverride != nil:
		base = *promoOverride
	case variant != nil && variant.Price != nil:
		base = *variant.Price
	case fallbackCapital != nil:
		base = *fallbackCapital
	}

	total := Cents(base)
	for _, id := range chosenIDs {
		if id == "" {
			continue
		}
		u := findUpsale(upsales, id)
		if u == nil || u.Price == nil {
			continue
		}
		if math.IsInf(*u.Price, 0) || math.IsNaN(*u.Price) {
			continue
		}
		total += Cents(*u.Price)
	}
	return total
}

func findUpsale(upsales []model.Upsale, id string) *model.Upsale {
	for i := range upsales {
		if upsales[i].ID == id {
			return &upsales[i]
		}
	}
	return nil
}

// FormatUSD 整数分 → "$" 前缀的定点金额。不做千位分组，0-2 位小数，末尾零去掉：
// 0 → "$0"，11000 → "$110"，9999 → "$99.99"，1320 → "$13.2"
func FormatUSD(cents int64) string {
	s := strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return "$" + s
}

// PlusUSD 加购项价格后缀：" (+$22)" / " (+$13.2)"，无价格返回空串
func PlusUSD(n *float64) string {
	if n == nil || math.IsInf(*n, 0) || math.IsNaN(*n) {
		return ""
	}
	if *n == math.Trunc(*n) {
		return fmt.Sprintf(" (+$%d)", int64(*n))
	}
	return fmt.Sprintf(" (+$%s)", strconv.FormatFloat(*n, 'f', 1, 64))
}

// FormatMoneyShort 金额缩写：1500 → "1.5k"，250000 → "250k"，2000000 → "2m"
func FormatMoneyShort(n float64) string {
	switch {
	case n >= 1_000_000_000:
		return fixed(n/1_000_000_000, math.Mod(n, 1_000_000_000) != 0) + "b"
	case n >= 1_000_000:
		return fixed(n/1_000_000, math.Mod(n, 1_000_000) != 0) + "m"
	case n >= 1_000:
		return fixed(n/1_000, math.Mod(n, 1_000) != 0 && n < 10_000) + "k"
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}

func fixed(v float64, oneDecimal bool) string {
	if oneDecimal {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// ShortK 横幅用的粗粒度缩写：2000 → "2k"，1000000 → "1m"，缺失 → "—"
func ShortK(n *float64) string {
	if n == nil || *n == 0 || math.IsInf(*n, 0) || math.IsNaN(*n) {
		return "—"
	}
	switch {
	case *n >= 1_000_000:
		return fmt.Sprintf("%dm", int64(math.Round(*n/1_000_000)))
	case *n >= 1_000:
		return fmt.Sprintf("%dk", int64(math.Round(*n/1_000)))
	default:
		return fmt.Sprintf("%d", int64(math.Round(*n)))
	}
}

// FmtUSDRaw 对比表单元格：数字加 "$" 缩写，非数字字符串原样展示，缺失 → "—"
func FmtUSDRaw(v any) string {
	n, raw, ok := looseNumber(v)
	if !ok {
		return "—"
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return raw
	}
	return "$" + FormatMoneyShort(n)
}

// FmtDays 天数单元格："1 day" / "14 days"，非数字原样，缺失 → "—"
func FmtDays(v any) string {
	n, raw, ok := looseNumber(v)
	if !ok {
		return "—"
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return raw
	}
	unit := "days"
	if n == 1 {
		unit = "day"
	}
	return strconv.FormatFloat(n, 'f', -1, 64) + " " + unit
}

// looseNumber 宽松取数：nil/空串视为缺失，字符串转不动时返回原文与 NaN
func looseNumber(v any) (n float64, raw string, present bool) {
	switch x := v.(type) {
	case nil:
		return 0, "", false
	case float64:
		return x, strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return float64(x), strconv.Itoa(x), true
	case int64:
		return float64(x), strconv.FormatInt(x, 10), true
	case string:
		if x == "" {
			return 0, "", false
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return math.NaN(), x, true
		}
		return f, x, true
	default:
		return 0, "", false
	}
}

// PlatformLabel 平台展示名
func PlatformLabel(p string) string {
	switch strings.ToUpper(p) {
	case "MT5":
		return "Meta Trader 5"
	case "MATCHTRADER":
		return "Match-Trader"
	default:
		return p
	}
}
