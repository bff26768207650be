package service

import (
	"testing"

	"ChallengeCheckout/internal/model"
)

func fptr(v float64) *float64 { return &v }

func TestBuildSnapshot(t *testing.T) {
	catalog := []model.CatalogVariant{
		{ID: "a", Platform: "MATCHTRADER", Challenge: "2 PHASE", Capital: 5000, Price: fptr(200)},
		{ID: "b", Platform: "MT5", Challenge: "1 PHASE", Capital: 2000, Price: fptr(100)},
		{ID: "c", Platform: "MT5", Challenge: "1 PHASE", Capital: 5000, Price: fptr(200)},
		{ID: "d", Platform: "", Challenge: "", Capital: 0},
	}
	snap := buildSnapshot(catalog, nil)

	// 平台按首次出现顺序，空值过滤掉
	if len(snap.Platforms) != 2 || snap.Platforms[0] != "MATCHTRADER" || snap.Platforms[1] != "MT5" {
		t.Fatalf("platforms = %v", snap.Platforms)
	}
	// 类别字典序
	if len(snap.Challenges) != 2 || snap.Challenges[0] != "1 PHASE" || snap.Challenges[1] != "2 PHASE" {
		t.Fatalf("challenges = %v", snap.Challenges)
	}
	// 资金档位数值升序，0 过滤掉
	if len(snap.Capitals) != 2 || snap.Capitals[0] != 2000 || snap.Capitals[1] != 5000 {
		t.Fatalf("capitals = %v", snap.Capitals)
	}
	if len(snap.Catalog) != 4 {
		t.Fatalf("catalog rows must be kept as-is, got %d", len(snap.Catalog))
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := buildSnapshot(nil, nil)
	if len(snap.Platforms) != 0 || len(snap.Challenges) != 0 || len(snap.Capitals) != 0 {
		t.Fatalf("empty catalog should give empty selector lists: %+v", snap)
	}
}
