package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ChallengeCheckout/internal/adapter/merchant"
	"ChallengeCheckout/internal/checkout"
	"ChallengeCheckout/internal/config"
	"ChallengeCheckout/internal/model"
	"ChallengeCheckout/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CheckoutService 下单编排：校验表单 → 落库 pending 订单 → 提交上游 → 回写结果
type CheckoutService struct {
	client *merchant.Client
	repo   repository.OrderRepository
	cfg    *config.CheckoutConfig
	logger *logrus.Logger
}

// NewCheckoutService 创建 CheckoutService
func NewCheckoutService(client *merchant.Client, repo repository.OrderRepository, cfg *config.CheckoutConfig, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{client: client, repo: repo, cfg: cfg, logger: logger}
}

// CheckoutRequest 前端下单请求体
type CheckoutRequest struct {
	Selection struct {
		ChallengeTypeID string  `json:"challengeTypeId"`
		Promo           *string `json:"promo"`
	} `json:"selection"`
	Customer struct {
		FirstName       string  `json:"firstName"`
		LastName        string  `json:"lastName"`
		Email           string  `json:"email"`
		Phone           *string `json:"phone"`
		Country         string  `json:"country"` // ISO: "UA","PL","ES",...
		Language        string  `json:"language"`
		Password        string  `json:"password"`
		ConfirmPassword string  `json:"confirmPassword"`
	} `json:"customer"`
	Payment struct {
		MerchantID    int64   `json:"merchantId"`
		Slug          string  `json:"slug"`
		Currency      *string `json:"currency"`
		IntegrationID *int64  `json:"integrationId"`
	} `json:"payment"`
	Amount  float64  `json:"amount"`
	Agree   bool     `json:"agree"`
	Upsales []string `json:"upsales,omitempty"` // 选中的加购项 ID，落库留档
}

// CheckoutResponse 下单响应。RedirectURL 缺失时前端按 Success/Pending/Error 顺序兜底跳转
type CheckoutResponse struct {
	OK          bool    `json:"ok"`
	OrderUUID   string  `json:"orderUuid"`
	RedirectURL *string `json:"redirectUrl,omitempty"`
	SuccessURL  *string `json:"successUrl,omitempty"`
	PendingURL  *string `json:"pendingUrl,omitempty"`
	ErrorURL    *string `json:"errorUrl,omitempty"`
}

// ValidationError 表单校验失败，携带字段级错误，前端据此把所有字段标记为已触碰
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form validation failed: %d field(s)", len(e.Errors))
}

// Submit 处理一次下单。提交前同步重跑表单校验（不信任前端的校验结果）
func (s *CheckoutService) Submit(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	phone := ""
	if req.Customer.Phone != nil {
		phone = *req.Customer.Phone
	}
	errs := checkout.Validate(checkout.Fields{
		FirstName:       req.Customer.FirstName,
		LastName:        req.Customer.LastName,
		Email:           req.Customer.Email,
		Phone:           phone,
		Country:         req.Customer.Country,
		Password:        req.Customer.Password,
		ConfirmPassword: req.Customer.ConfirmPassword,
		PaymentMethod:   req.Payment.Slug,
		Agree:           req.Agree,
	})
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if req.Selection.ChallengeTypeID == "" {
		return nil, fmt.Errorf("Select valid Platform/Challenge/Capital")
	}
	if req.Amount == 0 {
		return nil, fmt.Errorf("Unable to calculate amount")
	}
	if req.Payment.MerchantID == 0 || req.Payment.Slug == "" {
		return nil, fmt.Errorf("Payment merchant is required")
	}
	if s.cfg.RegionID == "" {
		return nil, fmt.Errorf("region_id is not configured")
	}

	currencyUpper := s.cfg.DefaultCurrency
	if req.Payment.Currency != nil && *req.Payment.Currency != "" {
		currencyUpper = *req.Payment.Currency
	}
	currencyUpper = strings.ToUpper(currencyUpper)
	currencyLower := strings.ToLower(currencyUpper)

	language := req.Customer.Language
	if language == "" {
		language = "en"
	}

	// 先落库 pending，上游结果无论成败都有迹可查
	order := &model.Order{
		OrderUUID:       uuid.New().String(),
		ChallengeTypeID: req.Selection.ChallengeTypeID,
		Amount:          req.Amount,
		Currency:        currencyUpper,
		PromoCode:       req.Selection.Promo,
		MerchantID:      req.Payment.MerchantID,
		MerchantSlug:    req.Payment.Slug,
		IntegrationID:   req.Payment.IntegrationID,
		FirstName:       req.Customer.FirstName,
		LastName:        req.Customer.LastName,
		Email:           req.Customer.Email,
		Phone:           req.Customer.Phone,
		Country:         req.Customer.Country,
		Language:        language,
		Status:          model.OrderStatusPending,
	}
	if len(req.Upsales) > 0 {
		if raw, err := json.Marshal(req.Upsales); err == nil {
			order.Upsales = raw
		}
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("创建订单失败: %w", err)
	}

	body := &merchant.CheckoutBody{
		TraderData: merchant.TraderData{
			FirstName:       req.Customer.FirstName,
			LastName:        req.Customer.LastName,
			Email:           req.Customer.Email,
			Phone:           req.Customer.Phone,
			Language:        language,
			Password:        req.Customer.Password,
			ConfirmPassword: req.Customer.ConfirmPassword,
			Affiliate:       nil,
			PromoCode:       req.Selection.Promo,
			Country:         req.Customer.Country,
		},
		Merchant:         req.Payment.Slug,
		MerchantID:       req.Payment.MerchantID,
		IntegrationID:    req.Payment.IntegrationID,
		ChallengeTypeID:  req.Selection.ChallengeTypeID,
		Currency:         currencyUpper,
		OriginalCurrency: currencyLower,
		Amount:           req.Amount,
		Leverage:         s.cfg.DefaultLeverage,
		RegionID:         s.cfg.RegionID,
	}

	result, err := s.client.SubmitCheckout(ctx, body)
	if err != nil {
		if uerr := s.repo.UpdateFailed(ctx, order.OrderUUID, err.Error()); uerr != nil {
			s.logger.WithError(uerr).WithField("order_uuid", order.OrderUUID).Error("回写订单失败状态失败")
		}
		return nil, err
	}

	if err := s.repo.UpdateSubmitted(ctx, order.OrderUUID, result.RedirectURL, result.Raw); err != nil {
		s.logger.WithError(err).WithField("order_uuid", order.OrderUUID).Error("回写订单提交状态失败")
	}

	return &CheckoutResponse{
		OK:          true,
		OrderUUID:   order.OrderUUID,
		RedirectURL: result.RedirectURL,
		SuccessURL:  result.SuccessURL,
		PendingURL:  result.PendingURL,
		ErrorURL:    result.ErrorURL,
	}, nil
}

// ListOrders 按邮箱分页查询历史订单
func (s *CheckoutService) ListOrders(ctx context.Context, email string, page, pageSize int) ([]*model.Order, int64, error) {
	return s.repo.ListByEmail(ctx, email, page, pageSize)
}

// GetOrder 按订单号查询
func (s *CheckoutService) GetOrder(ctx context.Context, orderUUID string) (*model.Order, error) {
	return s.repo.GetByUUID(ctx, orderUUID)
}
