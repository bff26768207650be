package merchant

import "testing"

func TestPickPath(t *testing.T) {
	obj := map[string]any{
		"permittedDailyLoss": nil,
		"settings": map[string]any{
			"dailyLoss": float64(500),
		},
		"rules": map[string]any{
			"maxDrawdown": float64(1000),
		},
	}
	// 顶层是 null，继续往候选表后面找
	if got := pickPath(obj, dailyLossPaths); got != float64(500) {
		t.Fatalf("pickPath dailyLoss = %v, want 500", got)
	}
	if got := pickPath(obj, totalLossPaths); got != float64(1000) {
		t.Fatalf("pickPath totalLoss = %v, want 1000", got)
	}
	if got := pickPath(obj, durationPaths); got != nil {
		t.Fatalf("missing attribute should be nil, got %v", got)
	}
}

func TestPickPathOrder(t *testing.T) {
	// 候选表前面的路径优先
	obj := map[string]any{
		"permittedDailyLoss": float64(300),
		"settings": map[string]any{
			"dailyLoss": float64(500),
		},
	}
	if got := pickPath(obj, dailyLossPaths); got != float64(300) {
		t.Fatalf("expected top-level value to win, got %v", got)
	}
}

func TestPickPathNonMapSegment(t *testing.T) {
	// 中间段不是对象时该路径直接跳过
	obj := map[string]any{
		"settings": "not-an-object",
		"rules": map[string]any{
			"dailyLoss": float64(7),
		},
	}
	if got := pickPath(obj, dailyLossPaths); got != float64(7) {
		t.Fatalf("expected rules.dailyLoss, got %v", got)
	}
}

func TestToNumberOrNull(t *testing.T) {
	if got := toNumberOrNull(float64(99.5)); got == nil || *got != 99.5 {
		t.Errorf("float64 input broken: %v", got)
	}
	if got := toNumberOrNull("$1,000"); got == nil || *got != 1000 {
		t.Errorf("currency string should strip to 1000, got %v", got)
	}
	if got := toNumberOrNull("5%"); got == nil || *got != 5 {
		t.Errorf("percent string should strip to 5, got %v", got)
	}
	if got := toNumberOrNull("unlimited"); got != nil {
		t.Errorf("non-numeric string should be nil, got %v", *got)
	}
	if got := toNumberOrNull(nil); got != nil {
		t.Errorf("nil input should be nil, got %v", *got)
	}
	if got := toNumberOrNull(true); got != nil {
		t.Errorf("bool input should be nil, got %v", *got)
	}
}

func TestNormPlatform(t *testing.T) {
	cases := map[string]string{
		"mt5":          "MT5",
		"MetaTrader5":  "METATRADER5",
		"MT5 Standard": "MT5",
		"match-trader": "MATCHTRADER",
		"MatchTrader":  "MATCHTRADER",
		"ctrader":      "CTRADER",
		"":             "",
	}
	for in, want := range cases {
		if got := normPlatform(in); got != want {
			t.Errorf("normPlatform(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapChainItem(t *testing.T) {
	item := map[string]any{
		"id":              "row-1",
		"challengeTypeId": "ct-1",
		"title":           "2k Evaluation",
		"category":        "1 PHASE",
		"initialBalance":  "$2,000",
		"oneTimeFee":      float64(100),
		"accountType": map[string]any{
			"platformInfo": map[string]any{"type": "mt5"},
		},
		"settings": map[string]any{
			"maxDailyLoss":   float64(5),
			"minTradingDays": "3",
			"tradingPeriod":  float64(30),
		},
	}
	v := mapChainItem(item)
	if v.ID != "row-1" || v.ChallengeTypeID != "ct-1" {
		t.Fatalf("identity fields broken: %+v", v)
	}
	if v.Platform != "MT5" {
		t.Errorf("platform = %q, want MT5", v.Platform)
	}
	if v.Capital != 2000 {
		t.Errorf("capital = %v, want 2000", v.Capital)
	}
	// price 缺失时回退到 oneTimeFee
	if v.Price == nil || *v.Price != 100 {
		t.Errorf("price = %v, want 100", v.Price)
	}
	if v.PermittedDailyLoss != float64(5) {
		t.Errorf("daily loss = %v, want 5", v.PermittedDailyLoss)
	}
	if v.ProfitableDays == nil || *v.ProfitableDays != 3 {
		t.Errorf("profitable days = %v, want 3", v.ProfitableDays)
	}
	if v.Duration == nil || *v.Duration != 30 {
		t.Errorf("duration = %v, want 30", v.Duration)
	}
}

func TestMapChainItemSparse(t *testing.T) {
	v := mapChainItem(map[string]any{"id": "bare"})
	if v.ID != "bare" || v.Price != nil || v.Capital != 0 {
		t.Fatalf("sparse item should map to zero values: %+v", v)
	}
	if v.PermittedDailyLoss != nil || v.ProfitableDays != nil || v.Duration != nil {
		t.Fatalf("sparse rules should stay nil: %+v", v)
	}
}

func TestExtractRedirectURLFallback(t *testing.T) {
	// 老格式 data.response.outputData.redirectUrl 优先
	old := map[string]any{
		"data": map[string]any{
			"redirectUrl": "https://new.example/pay",
			"response": map[string]any{
				"outputData": map[string]any{"redirectUrl": "https://old.example/pay"},
			},
		},
	}
	if got := extractURL(old, redirectURLPaths); got == nil || *got != "https://old.example/pay" {
		t.Fatalf("legacy path should win, got %v", got)
	}

	flat := map[string]any{"redirectUrl": "https://flat.example/pay"}
	if got := extractURL(flat, redirectURLPaths); got == nil || *got != "https://flat.example/pay" {
		t.Fatalf("top-level fallback broken, got %v", got)
	}

	if got := extractURL(map[string]any{}, redirectURLPaths); got != nil {
		t.Fatalf("expected nil without any redirect url, got %v", *got)
	}
}

func TestMerchantTitle(t *testing.T) {
	dn := "Cards"
	if got := merchantTitle("YoboPay", &dn, "usd"); got != "YoboPay — Cards (USD)" {
		t.Errorf("full title = %q", got)
	}
	if got := merchantTitle("YoboPay", &dn, ""); got != "YoboPay — Cards" {
		t.Errorf("no currency title = %q", got)
	}
	if got := merchantTitle("YoboPay", nil, "eur"); got != "YoboPay — EUR" {
		t.Errorf("no display name title = %q", got)
	}
	if got := merchantTitle("YoboPay", nil, ""); got != "YoboPay" {
		t.Errorf("bare title = %q", got)
	}
}
