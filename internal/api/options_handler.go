package api

import (
	"net/http"
	"sort"

	"ChallengeCheckout/internal/selection"
	"ChallengeCheckout/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// OptionsHandler 目录快照与报价接口
type OptionsHandler struct {
	optionsService *service.OptionsService
	promoService   *service.PromoService
	logger         *logrus.Logger
}

// NewOptionsHandler 创建 OptionsHandler
func NewOptionsHandler(optionsService *service.OptionsService, promoService *service.PromoService, logger *logrus.Logger) *OptionsHandler {
	return &OptionsHandler{
		optionsService: optionsService,
		promoService:   promoService,
		logger:         logger,
	}
}

// GetOptions 选择器数据接口
// GET /api/options 返回 {platforms, challenges, capitals, catalog, upsales}
// GET /api/options?type=payment 返回 {methods}（上游失败降级为空列表）
func (h *OptionsHandler) GetOptions(c *gin.Context) {
	if c.Query("type") == "payment" {
		methods := h.optionsService.GetPaymentMethods(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"methods": methods})
		return
	}

	snap, err := h.optionsService.GetSnapshot(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("GetOptions failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch chains"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetQuote 报价接口：按选择器参数解析当前行、加购分组与总价
// GET /api/quote?platform=ALL&challenge=1%20PHASE&capital=2000&promo=CODE&apply_promo=1&upsale=id1&upsale=id2
// 不认识的平台/类别/资金值静默忽略（与 URL 初始化参数同一套校验）。
// apply_promo 置位且带促销码时走上游校验，成功把覆盖价计入总价，失败只记提示不动其它状态
func (h *OptionsHandler) GetQuote(c *gin.Context) {
	snap, err := h.optionsService.GetSnapshot(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("GetQuote failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch chains"})
		return
	}

	state := selection.NewState(snap)
	state.ApplyQuery(selection.InitParams{
		Promo:     c.Query("promo"),
		Platform:  c.Query("platform"),
		Challenge: c.Query("challenge"),
		Capital:   c.Query("capital"),
	})
	for _, id := range c.QueryArray("upsale") {
		if u := snap.FindUpsale(id); u != nil {
			state.ChooseUpsale(u.Condition, id)
		}
	}

	if flag := c.Query("apply_promo"); flag != "" && flag != "0" && state.PromoCode() != "" && state.ProductID() != "" {
		price, err := h.promoService.Apply(c.Request.Context(), state.ProductID(), state.PromoCode())
		if err != nil {
			state.RejectPromo("Invalid promo code")
		} else {
			state.ApplyPromoPrice(price)
		}
	}

	view := state.Quote()
	capitals := make([]float64, 0, len(view.AvailableCapitals))
	for amount := range view.AvailableCapitals {
		capitals = append(capitals, amount)
	}
	sort.Float64s(capitals)

	promoHint, promoError := state.PromoHint()
	c.JSON(http.StatusOK, gin.H{
		"variant":           view.Variant,
		"upsaleGroups":      view.Groups,
		"totalCents":        view.TotalCents,
		"total":             view.Total,
		"availableCapitals": capitals,
		"promoHint":         promoHint,
		"promoError":        promoError,
	})
}
