package api

import (
	"errors"
	"net/http"
	"strconv"

	"ChallengeCheckout/internal/adapter/merchant"
	"ChallengeCheckout/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CheckoutHandler 下单与订单查询接口
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	logger          *logrus.Logger
}

// NewCheckoutHandler 创建 CheckoutHandler
func NewCheckoutHandler(checkoutService *service.CheckoutService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// Checkout 下单接口 POST /api/checkout
// 表单校验失败返回 400 + 字段级错误映射；上游失败返回 502 并保留上游原文
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := h.checkoutService.Submit(c.Request.Context(), &req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "errors": verr.Errors})
			return
		}
		var uerr *merchant.UpstreamError
		if errors.As(err, &uerr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream error", "status": uerr.Status, "upstreamRaw": uerr.Raw})
			return
		}
		h.logger.WithError(err).Error("Checkout failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListOrders 订单列表 GET /api/orders?email=...&page=1&page_size=20
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	list, total, err := h.checkoutService.ListOrders(c.Request.Context(), email, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListOrders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"items":     list,
	})
}

// GetOrderDetail 订单详情 GET /api/orders/:order_uuid
func (h *CheckoutHandler) GetOrderDetail(c *gin.Context) {
	orderUUID := c.Param("order_uuid")
	if orderUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_uuid is required"})
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), orderUUID)
	if err != nil {
		h.logger.WithError(err).Error("GetOrderDetail failed")
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}
