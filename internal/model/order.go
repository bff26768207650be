package model

import (
	"time"

	"gorm.io/datatypes"
)

// 订单状态流转：pending（已落库，上游请求未返回）→ submitted（上游成功，拿到跳转地址）/ failed
const (
	OrderStatusPending   = "pending"
	OrderStatusSubmitted = "submitted"
	OrderStatusFailed    = "failed"
)

// Order 对应 orders 表，记录每次提交到上游的下单请求
// OrderUUID 服务端生成，返回给前端用于查询；UpstreamRaw 保留上游原始响应便于排查
type Order struct {
	ID              uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	OrderUUID       string         `gorm:"column:order_uuid;type:varchar(64);uniqueIndex;not null"`
	ChallengeTypeID string         `gorm:"column:challenge_type_id;type:varchar(64);index;not null"` // 上游产品键
	Amount          float64        `gorm:"column:amount;type:numeric(18,2);not null"`
	Currency        string         `gorm:"column:currency;type:varchar(16);default:'USD'"`
	PromoCode       *string        `gorm:"column:promo_code;type:varchar(64)"`
	MerchantID      int64          `gorm:"column:merchant_id;type:bigint;not null"`
	MerchantSlug    string         `gorm:"column:merchant_slug;type:varchar(64);not null"`
	IntegrationID   *int64         `gorm:"column:integration_id;type:bigint"`
	FirstName       string         `gorm:"column:first_name;type:varchar(128);not null"`
	LastName        string         `gorm:"column:last_name;type:varchar(128);not null"`
	Email           string         `gorm:"column:email;type:varchar(255);index;not null"`
	Phone           *string        `gorm:"column:phone;type:varchar(32)"`
	Country         string         `gorm:"column:country;type:varchar(2);not null"` // ISO: "UA","PL","ES",...
	Language        string         `gorm:"column:language;type:varchar(8);default:'en'"`
	Upsales         datatypes.JSON `gorm:"column:upsales;type:jsonb"` // 选中的加购项 ID 列表
	Status          string         `gorm:"column:status;type:varchar(16);default:'pending'"`
	RedirectURL     *string        `gorm:"column:redirect_url;type:text"`
	UpstreamRaw     datatypes.JSON `gorm:"column:upstream_raw;type:jsonb"` // 上游原始响应
	FailReason      *string        `gorm:"column:fail_reason;type:text"`
	CreatedAt       time.Time      `gorm:"column:created_at;type:timestamp;default:now()"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;type:timestamp;default:now()"`
}

func (Order) TableName() string { return "orders" }
