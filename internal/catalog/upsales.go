package catalog

import (
	"sort"
	"strconv"
	"strings"

	"ChallengeCheckout/internal/model"
	"ChallengeCheckout/internal/pricing"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// upsaleLabels condition → 展示标题。缺表的条件直接展示原始键
var upsaleLabels = map[string]string{
	"profitTarget":                  "Get Additional Profit Target",
	"minimumDaysWithTradingHistory": "Get Additional Min Days",
	"dailyPercentage":               "Get Additional Daily Percentage",
	"totalPercentage":               "Get Additional Total Percentage",
	"percentForWithdrawal":          "Get Additional Percentage for Withdrawal",
	"firstWithdrawalDays":           "Get Additional Days for First Withdrawal",
	"consecutiveWithdrawalDays":     "Get Additional Days for Consecutive Withdrawal",
	"consistencyRule":               "Consistency Rule",
	"tradingNews":                   "Get Subscription for Trading News",
	"weekendTradingAllowed":         "Allow to Trade on Weekends",
}

// UpsaleOption 分组里的一个可选项。ID 为空表示"未选择"哨兵项
type UpsaleOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// UpsaleGroup 同一条件键下互斥的加购项集合
type UpsaleGroup struct {
	Condition string         `json:"condition"`
	Label     string         `json:"label"`
	Options   []UpsaleOption `json:"options"`
}

// GroupUpsales 筛出与当前产品相关的加购项并按条件键分组。
// 去重键为（条件, 小写标题, 覆盖值, 价格），后出现的重复项被丢弃；
// 组内按展示文本排序（按区域规则比较），组顺序保持首次出现顺序；
// 每组开头插入空 ID 的 "Select" 哨兵项，因此任何返回的组至少有 2 个选项。
// currentProductID 为空或没有相关项时返回空切片。
func GroupUpsales(upsales []model.Upsale, currentProductID string) []UpsaleGroup {
	if currentProductID == "" {
		return nil
	}

	seen := make(map[string]struct{})
	byCondition := make(map[string]*UpsaleGroup)
	var order []string

	for i := range upsales {
		u := &upsales[i]
		if !relevant(u, currentProductID) {
			continue
		}

		label := upsaleLabels[u.Condition]
		if label == "" {
			label = u.Condition
		}

		valuePart := ""
		override := ""
		if v := matchValue(u, currentProductID); v != "" {
			valuePart = " = " + v
			override = v
		}

		// 标题为空或全空白时用组标签兜底，去重也按兜底后的标题算
		baseTitle := strings.TrimSpace(u.Title)
		if baseTitle == "" {
			baseTitle = label
		}
		text := baseTitle + valuePart + pricing.PlusUSD(u.Price)

		priceKey := ""
		if u.Price != nil {
			priceKey = strconv.FormatFloat(*u.Price, 'f', -1, 64)
		}
		dedupeKey := strings.Join([]string{u.Condition, strings.ToLower(baseTitle), override, priceKey}, "|")
		if _, dup := seen[dedupeKey]; dup {
			continue
		}
		seen[dedupeKey] = struct{}{}

		g, ok := byCondition[u.Condition]
		if !ok {
			g = &UpsaleGroup{Condition: u.Condition, Label: label}
			byCondition[u.Condition] = g
			order = append(order, u.Condition)
		}
		g.Options = append(g.Options, UpsaleOption{ID: u.ID, Text: text})
	}

	if len(order) == 0 {
		return nil
	}

	collator := collate.New(language.English)
	groups := make([]UpsaleGroup, 0, len(order))
	for _, cond := range order {
		g := byCondition[cond]
		sort.SliceStable(g.Options, func(i, j int) bool {
			return collator.CompareString(g.Options[i].Text, g.Options[j].Text) < 0
		})
		g.Options = append([]UpsaleOption{{ID: "", Text: "Select"}}, g.Options...)
		groups = append(groups, *g)
	}
	return groups
}

// relevant 加购项与产品相关：自身产品键匹配，或任一取值覆盖的产品键匹配
func relevant(u *model.Upsale, productID string) bool {
	if u.ChallengeTypeID == productID {
		return true
	}
	for _, v := range u.Values {
		if v.ChallengeTypeID == productID {
			return true
		}
	}
	return false
}

// matchValue 第一个匹配当前产品的覆盖值，渲染成展示字符串；空值按缺失处理
func matchValue(u *model.Upsale, productID string) string {
	for _, v := range u.Values {
		if v.ChallengeTypeID != productID {
			continue
		}
		return renderValue(v.Value)
	}
	return ""
}

func renderValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	default:
		return ""
	}
}
