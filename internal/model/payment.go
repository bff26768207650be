package model

// PaymentMethod 前端可选支付方式（一个商户按币种拆成多条）
type PaymentMethod struct {
	ID            string  `json:"id"` // "merchantId:currency"
	MerchantID    int64   `json:"merchantId"`
	Slug          string  `json:"slug"`
	Currency      *string `json:"currency"` // 可空：商户未声明币种
	IntegrationID *int64  `json:"integrationId"`
	Title         string  `json:"title"`
	ImageURL      *string `json:"imageUrl"`
	OpenNewTab    bool    `json:"openNewTab"`
	External      bool    `json:"external"`
}
