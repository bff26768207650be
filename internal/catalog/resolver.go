package catalog

import "ChallengeCheckout/internal/model"

// PlatformAll 平台选择器的"全部"取值
const PlatformAll = "ALL"

// ALL 视图只展示一个代表行，按固定平台优先级挑选，保证同样输入永远选同一行
var platformPreference = []string{"MT5", "MATCHTRADER"}

// Resolve 按当前选择器从目录中解析出唯一当前行。
// challenge 为空表示不限类别，capital 为 nil 表示不限资金。无匹配返回 nil。
// platformFilter 非 ALL 时返回过滤结果的第一行（保持输入顺序）；
// ALL 时先按平台优先级找，优先平台都不在候选里才回退到第一行。
func Resolve(items []model.CatalogVariant, platformFilter, challenge string, capital *float64) *model.CatalogVariant {
	var candidates []*model.CatalogVariant
	for i := range items {
		v := &items[i]
		if challenge != "" && v.Challenge != challenge {
			continue
		}
		if capital != nil && v.Capital != *capital {
			continue
		}
		if platformFilter != PlatformAll && v.Platform != platformFilter {
			continue
		}
		candidates = append(candidates, v)
	}
	if len(candidates) == 0 {
		return nil
	}
	if platformFilter != PlatformAll {
		return candidates[0]
	}
	for _, pf := range platformPreference {
		for _, c := range candidates {
			if c.Platform == pf {
				return c
			}
		}
	}
	return candidates[0]
}

// AvailableCapitals 当前平台/类别下有真实数据的资金档位集合（用于置灰没有数据的档位）。
// currentPlatform 为 ALL 视图下已解析出的代表平台。
func AvailableCapitals(items []model.CatalogVariant, platformFilter, currentPlatform, challenge string) map[float64]bool {
	set := make(map[float64]bool)
	for i := range items {
		v := &items[i]
		if platformFilter == PlatformAll {
			if v.Platform != currentPlatform {
				continue
			}
		} else if v.Platform != platformFilter {
			continue
		}
		if challenge != "" && v.Challenge != challenge {
			continue
		}
		hasData := v.PermittedDailyLoss != nil ||
			v.PermittedTotalLoss != nil ||
			v.ProfitableDays != nil ||
			v.Duration != nil ||
			v.Price != nil
		if hasData {
			set[v.Capital] = true
		}
	}
	return set
}
