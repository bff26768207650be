package repository

import (
	"context"
	"time"

	"ChallengeCheckout/internal/model"

	"gorm.io/gorm"
)

// OrderRepository 订单持久化
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	UpdateSubmitted(ctx context.Context, orderUUID string, redirectURL *string, upstreamRaw []byte) error
	UpdateFailed(ctx context.Context, orderUUID, reason string) error
	ListByEmail(ctx context.Context, email string, page, pageSize int) ([]*model.Order, int64, error)
	GetByUUID(ctx context.Context, orderUUID string) (*model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// UpdateSubmitted 上游成功后回写跳转地址与原始响应
func (r *orderRepository) UpdateSubmitted(ctx context.Context, orderUUID string, redirectURL *string, upstreamRaw []byte) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_uuid = ?", orderUUID).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusSubmitted,
			"redirect_url": redirectURL,
			"upstream_raw": upstreamRaw,
			"updated_at":   time.Now(),
		}).Error
}

// UpdateFailed 上游失败后记录失败原因
func (r *orderRepository) UpdateFailed(ctx context.Context, orderUUID, reason string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_uuid = ?", orderUUID).
		Updates(map[string]interface{}{
			"status":      model.OrderStatusFailed,
			"fail_reason": reason,
			"updated_at":  time.Now(),
		}).Error
}

func (r *orderRepository) ListByEmail(ctx context.Context, email string, page, pageSize int) ([]*model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.Order{}).Where("email = ?", email)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Order
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *orderRepository) GetByUUID(ctx context.Context, orderUUID string) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("order_uuid = ?", orderUUID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
