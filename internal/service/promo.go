package service

import (
	"context"
	"fmt"
	"strings"

	"ChallengeCheckout/internal/adapter/merchant"

	"github.com/sirupsen/logrus"
)

// PromoService 促销码校验
type PromoService struct {
	client *merchant.Client
	logger *logrus.Logger
}

// NewPromoService 创建 PromoService
func NewPromoService(client *merchant.Client, logger *logrus.Logger) *PromoService {
	return &PromoService{client: client, logger: logger}
}

// Apply 校验促销码并返回覆盖价。challengeTypeID 与促销码都必填
func (s *PromoService) Apply(ctx context.Context, challengeTypeID, promoCode string) (float64, error) {
	if challengeTypeID == "" {
		return 0, fmt.Errorf("challengeTypeId is required")
	}
	promoCode = strings.TrimSpace(promoCode)
	if promoCode == "" {
		return 0, fmt.Errorf("promoCode is required")
	}
	price, err := s.client.ValidatePromo(ctx, challengeTypeID, promoCode)
	if err != nil {
		s.logger.WithError(err).WithField("challenge_type_id", challengeTypeID).Warn("促销码校验失败")
		return 0, err
	}
	return price, nil
}
