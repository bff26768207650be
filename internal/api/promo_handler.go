package api

import (
	"errors"
	"net/http"

	"ChallengeCheckout/internal/adapter/merchant"
	"ChallengeCheckout/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PromoHandler 促销码校验接口
type PromoHandler struct {
	promoService *service.PromoService
	logger       *logrus.Logger
}

// NewPromoHandler 创建 PromoHandler
func NewPromoHandler(promoService *service.PromoService, logger *logrus.Logger) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
		logger:       logger,
	}
}

// promoRequest 校验请求体
type promoRequest struct {
	ChallengeTypeID string `json:"challengeTypeId"`
	PromoCode       string `json:"promoCode"`
}

// ApplyPromo 促销码校验 POST /api/promo
// 成功返回 {ok:true, price}；上游失败返回 502 并保留上游原文
func (h *PromoHandler) ApplyPromo(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.ChallengeTypeID == "" || req.PromoCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "challengeTypeId and promoCode are required"})
		return
	}

	price, err := h.promoService.Apply(c.Request.Context(), req.ChallengeTypeID, req.PromoCode)
	if err != nil {
		var uerr *merchant.UpstreamError
		if errors.As(err, &uerr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream error", "upstreamRaw": uerr.Raw})
			return
		}
		h.logger.WithError(err).Error("ApplyPromo failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "price": price})
}
