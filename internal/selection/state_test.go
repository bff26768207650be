package selection

import (
	"testing"

	"ChallengeCheckout/internal/model"
)

func fptr(v float64) *float64 { return &v }

func testSnapshot() *model.OptionsSnapshot {
	return &model.OptionsSnapshot{
		Platforms:  []string{"ALL", "MT5", "MATCHTRADER"},
		Challenges: []string{"1 PHASE", "2 PHASE"},
		Capitals:   []float64{2000, 5000},
		Catalog: []model.CatalogVariant{
			{ID: "a", ChallengeTypeID: "ct-mt5-1p-2k", Platform: "MT5", Challenge: "1 PHASE", Capital: 2000, Price: fptr(100)},
			{ID: "b", ChallengeTypeID: "ct-mt5-1p-5k", Platform: "MT5", Challenge: "1 PHASE", Capital: 5000, Price: fptr(200)},
			{ID: "c", ChallengeTypeID: "ct-match-1p-2k", Platform: "MATCHTRADER", Challenge: "1 PHASE", Capital: 2000, Price: fptr(120)},
			{ID: "d", ChallengeTypeID: "ct-mt5-2p-2k", Platform: "MT5", Challenge: "2 PHASE", Capital: 2000, Price: fptr(80)},
		},
		Upsales: []model.Upsale{
			{ID: "u1", ChallengeTypeID: "ct-mt5-1p-2k", Title: "Extra Target", Condition: "profitTarget", Price: fptr(22)},
		},
	}
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState(testSnapshot())
	if s.Current() == nil {
		t.Fatal("expected a resolved row with defaults")
	}
	// 默认 ALL/第一个类别/第一个资金档位，ALL 下优先 MT5
	if s.ProductID() != "ct-mt5-1p-2k" {
		t.Fatalf("unexpected default product %q", s.ProductID())
	}
}

func TestPromoClearedOnProductChange(t *testing.T) {
	s := NewState(testSnapshot())
	s.ApplyPromoPrice(80)
	if s.PromoPrice() == nil {
		t.Fatal("promo price should be set")
	}

	// 资金档位切换导致产品键变化，覆盖价必须清空
	s.SetCapital(5000)
	if s.PromoPrice() != nil {
		t.Fatal("promo price should be cleared when the resolved product changes")
	}
	if hint, _ := s.PromoHint(); hint != "" {
		t.Fatalf("promo hint should be cleared, got %q", hint)
	}
}

func TestPromoKeptWhenProductUnchanged(t *testing.T) {
	s := NewState(testSnapshot())
	s.ApplyPromoPrice(80)

	// ALL 下已解析到 MT5 行，显式钉住 MT5 不改变产品键
	s.SetPlatform("MT5")
	if s.ProductID() != "ct-mt5-1p-2k" {
		t.Fatalf("product unexpectedly changed to %q", s.ProductID())
	}
	if s.PromoPrice() == nil || *s.PromoPrice() != 80 {
		t.Fatal("promo price must survive a change that keeps the same product")
	}
}

func TestRejectPromo(t *testing.T) {
	s := NewState(testSnapshot())
	s.ApplyPromoPrice(80)
	s.RejectPromo("Invalid promo code")
	if s.PromoPrice() != nil {
		t.Fatal("rejected promo should clear the override")
	}
	hint, isErr := s.PromoHint()
	if hint != "Invalid promo code" || !isErr {
		t.Fatalf("unexpected hint state %q/%v", hint, isErr)
	}
	// 重新编辑促销码输入清掉提示
	s.SetPromoCode("NEW")
	if hint, isErr = s.PromoHint(); hint != "" || isErr {
		t.Fatal("editing the code should reset hint and error flag")
	}
}

func TestApplyQueryIgnoresUnknownValues(t *testing.T) {
	s := NewState(testSnapshot())
	s.ApplyQuery(InitParams{
		Promo:     "SAVE10",
		Platform:  "NINJATRADER",
		Challenge: "9 PHASE",
		Capital:   "123456",
	})
	if s.PromoCode() != "SAVE10" {
		t.Fatalf("promo param should apply, got %q", s.PromoCode())
	}
	// 不认识的平台/类别/资金保持默认
	if s.ProductID() != "ct-mt5-1p-2k" {
		t.Fatalf("unknown params must not change resolution, got %q", s.ProductID())
	}
}

func TestApplyQueryValidValues(t *testing.T) {
	s := NewState(testSnapshot())
	s.ApplyQuery(InitParams{Platform: "MATCHTRADER", Capital: "2000"})
	if s.ProductID() != "ct-match-1p-2k" {
		t.Fatalf("valid params should apply, got %q", s.ProductID())
	}
}

func TestChooseUpsaleAndQuote(t *testing.T) {
	s := NewState(testSnapshot())
	s.ChooseUpsale("profitTarget", "u1")
	view := s.Quote()
	if view.TotalCents != 12200 {
		t.Fatalf("expected 100+22 = 12200 cents, got %d", view.TotalCents)
	}
	if view.Total != "$122" {
		t.Fatalf("unexpected formatted total %q", view.Total)
	}
	if len(view.Groups) != 1 || len(view.Groups[0].Options) != 2 {
		t.Fatalf("expected one group with sentinel + item, got %v", view.Groups)
	}

	// 取消选择回到基准价
	s.ChooseUpsale("profitTarget", "")
	if got := s.Quote().TotalCents; got != 10000 {
		t.Fatalf("expected base price after clearing, got %d", got)
	}
}

func TestQuoteAvailableCapitals(t *testing.T) {
	s := NewState(testSnapshot())
	view := s.Quote()
	if !view.AvailableCapitals[2000] || !view.AvailableCapitals[5000] {
		t.Fatalf("expected both capitals available, got %v", view.AvailableCapitals)
	}
	s.SetChallenge("2 PHASE")
	view = s.Quote()
	if view.AvailableCapitals[5000] {
		t.Fatal("2 PHASE has no 5000 row")
	}
}
