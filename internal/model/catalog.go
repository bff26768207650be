package model

// CatalogVariant 单个可购买组合（平台 × 挑战类别 × 资金规模），来自上游目录快照
type CatalogVariant struct {
	ID                 string   `json:"id"`
	ChallengeTypeID    string   `json:"challengeTypeId"` // 上游产品键，下单/促销码都用它
	Title              string   `json:"title"`
	Platform           string   `json:"platform"`  // 归一化后的平台：MT5 / MATCHTRADER / 其它大写
	Challenge          string   `json:"challenge"` // 挑战类别，如 "1 PHASE" / "2 PHASE" / "MASTER"
	Capital            float64  `json:"capital"`   // 初始资金
	Price              *float64 `json:"price"`     // 目录价，可空
	PermittedDailyLoss any      `json:"permittedDailyLoss"`
	PermittedTotalLoss any      `json:"permittedTotalLoss"`
	ProfitableDays     *float64 `json:"profitableDays"`
	Duration           *float64 `json:"duration"`
}

// UpsaleValue 加购项的按产品取值覆盖
type UpsaleValue struct {
	Value           any    `json:"value"`
	ChallengeTypeID string `json:"challengeTypeId"`
}

// Upsale 可选加购项。与某个产品相关的条件：自身 ChallengeTypeID 匹配，或任一 Values 覆盖匹配
type Upsale struct {
	ID              string        `json:"id"`
	ChallengeTypeID string        `json:"challengeTypeId"`
	Title           string        `json:"title"`
	Condition       string        `json:"condition"` // 分组键，同组内互斥
	Price           *float64      `json:"price,omitempty"`
	Values          []UpsaleValue `json:"values,omitempty"`
}

// OptionsSnapshot 一次目录拉取的完整快照（加载后不可变）
type OptionsSnapshot struct {
	Platforms  []string         `json:"platforms"`
	Challenges []string         `json:"challenges"`
	Capitals   []float64        `json:"capitals"`
	Catalog    []CatalogVariant `json:"catalog"`
	Upsales    []Upsale         `json:"upsales"`
}

// FindUpsale 按 ID 查加购项，找不到返回 nil
func (s *OptionsSnapshot) FindUpsale(id string) *Upsale {
	for i := range s.Upsales {
		if s.Upsales[i].ID == id {
			return &s.Upsales[i]
		}
	}
	return nil
}
