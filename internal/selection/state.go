package selection

import (
	"strconv"

	"ChallengeCheckout/internal/catalog"
	"ChallengeCheckout/internal/model"
	"ChallengeCheckout/internal/pricing"
)

// State 一次快买会话的选择状态。快照加载后（Ready）才有 State；
// 所有派生值（当前行、加购分组、总价）在每次变更后同步重算，
// 与最近一次选择始终一致。
type State struct {
	snapshot *model.OptionsSnapshot

	platform  string // "ALL" 或具体平台
	challenge string
	capital   *float64

	promoCode  string
	promoPrice *float64 // 促销覆盖价，产品变化时自动清空
	promoHint  string
	promoError bool

	chosen map[string]string // condition → 加购项 ID，"" 表示该组未选

	current *model.CatalogVariant // 派生：当前解析行
}

// NewState 基于已加载的快照建会话。默认：平台 ALL、第一个类别、第一个资金档位
func NewState(snap *model.OptionsSnapshot) *State {
	s := &State{
		snapshot: snap,
		platform: catalog.PlatformAll,
		chosen:   make(map[string]string),
	}
	if len(snap.Challenges) > 0 {
		s.challenge = snap.Challenges[0]
	}
	if len(snap.Capitals) > 0 {
		c := snap.Capitals[0]
		s.capital = &c
	}
	s.current = catalog.Resolve(snap.Catalog, s.platform, s.challenge, s.capital)
	return s
}

// SetPlatform 切换平台过滤并重算派生状态
func (s *State) SetPlatform(platform string) {
	s.platform = platform
	s.recompute()
}

// SetChallenge 切换挑战类别并重算派生状态
func (s *State) SetChallenge(challenge string) {
	s.challenge = challenge
	s.recompute()
}

// SetCapital 切换资金档位并重算派生状态
func (s *State) SetCapital(capital float64) {
	s.capital = &capital
	s.recompute()
}

// recompute 重新解析当前行。解析出的产品键变化时清掉促销覆盖价/提示/错误标记，
// 这是唯一的自动状态重置
func (s *State) recompute() {
	prev := s.ProductID()
	s.current = catalog.Resolve(s.snapshot.Catalog, s.platform, s.challenge, s.capital)
	if s.ProductID() != prev {
		s.promoPrice = nil
		s.promoHint = ""
		s.promoError = false
	}
}

// Current 当前解析行，无匹配为 nil
func (s *State) Current() *model.CatalogVariant {
	return s.current
}

// ProductID 当前解析行的产品键，无行为空串
func (s *State) ProductID() string {
	if s.current == nil {
		return ""
	}
	return s.current.ChallengeTypeID
}

// SetPromoCode 修改促销码输入，顺带清掉上一次的提示与错误标记（不动覆盖价）
func (s *State) SetPromoCode(code string) {
	s.promoCode = code
	s.promoHint = ""
	s.promoError = false
}

// PromoCode 当前促销码输入
func (s *State) PromoCode() string { return s.promoCode }

// PromoPrice 当前促销覆盖价，未应用为 nil
func (s *State) PromoPrice() *float64 { return s.promoPrice }

// PromoHint 促销提示文案与错误标记
func (s *State) PromoHint() (string, bool) { return s.promoHint, s.promoError }

// ApplyPromoPrice 促销校验成功后写入覆盖价
func (s *State) ApplyPromoPrice(price float64) {
	s.promoPrice = &price
	s.promoHint = "Promo applied. New price: " + pricing.FormatUSD(pricing.Cents(price))
	s.promoError = false
}

// RejectPromo 促销校验失败：清覆盖价，记提示与错误标记，其余状态不动
func (s *State) RejectPromo(hint string) {
	s.promoPrice = nil
	s.promoHint = hint
	s.promoError = true
}

// ChooseUpsale 选择某条件组下的加购项，id 为空表示取消该组选择
func (s *State) ChooseUpsale(condition, id string) {
	if id == "" {
		delete(s.chosen, condition)
		return
	}
	s.chosen[condition] = id
}

// ChosenUpsaleIDs 所有已选加购项 ID（无序，总价计算与顺序无关）
func (s *State) ChosenUpsaleIDs() []string {
	ids := make([]string, 0, len(s.chosen))
	for _, id := range s.chosen {
		ids = append(ids, id)
	}
	return ids
}

// InitParams URL 带入的初始化参数
type InitParams struct {
	Promo     string
	Platform  string
	Challenge string
	Capital   string
}

// ApplyQuery 应用 URL 初始化参数。平台/类别/资金都要在已加载列表里才生效，
// 不认识的值静默忽略
func (s *State) ApplyQuery(p InitParams) {
	if p.Promo != "" {
		s.promoCode = p.Promo
	}
	if p.Platform != "" && contains(s.snapshot.Platforms, p.Platform) {
		s.platform = p.Platform
	}
	if p.Challenge != "" && contains(s.snapshot.Challenges, p.Challenge) {
		s.challenge = p.Challenge
	}
	if p.Capital != "" {
		if c, err := strconv.ParseFloat(p.Capital, 64); err == nil && containsFloat(s.snapshot.Capitals, c) {
			s.capital = &c
		}
	}
	s.recompute()
}

// View 派生状态的一次性快照，供 quote 接口返回
type View struct {
	Variant           *model.CatalogVariant `json:"variant"`
	Groups            []catalog.UpsaleGroup `json:"upsaleGroups"`
	TotalCents        int64                 `json:"totalCents"`
	Total             string                `json:"total"`
	AvailableCapitals map[float64]bool      `json:"-"`
}

// Quote 汇总当前派生状态：当前行、加购分组、总价、可用资金档位
func (s *State) Quote() View {
	currentPlatform := ""
	if s.current != nil {
		currentPlatform = s.current.Platform
	}
	total := pricing.TotalCents(s.promoPrice, s.current, s.capital, s.ChosenUpsaleIDs(), s.snapshot.Upsales)
	return View{
		Variant:           s.current,
		Groups:            catalog.GroupUpsales(s.snapshot.Upsales, s.ProductID()),
		TotalCents:        total,
		Total:             pricing.FormatUSD(total),
		AvailableCapitals: catalog.AvailableCapitals(s.snapshot.Catalog, s.platform, currentPlatform, s.challenge),
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsFloat(list []float64, v float64) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
