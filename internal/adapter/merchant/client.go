package merchant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ChallengeCheckout/internal/config"
	"ChallengeCheckout/internal/model"
	"ChallengeCheckout/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client 上游商户后端客户端。目录、支付方式、促销码、下单四类请求都走这里
type Client struct {
	baseURL    string
	apiKey     string
	debug      bool // 打印请求/响应原文（含 PII，生产慎开）
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 创建商户后端客户端
func NewClient(cfg *config.BackendConfig, debugPayments bool, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		debug:      debugPayments,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// chainsPayload /v3/challenge-types/chains 响应外层
type chainsPayload struct {
	Success bool `json:"success"`
	Data    []struct {
		Chain   []json.RawMessage `json:"chain"`
		Upsales []model.Upsale    `json:"upsales"`
	} `json:"data"`
}

// FetchChains 拉取目录与加购项。chain 元素形状不稳定，逐个解码成通用对象后走候选路径表映射
func (c *Client) FetchChains(ctx context.Context) ([]model.CatalogVariant, []model.Upsale, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v3/challenge-types/chains", nil)
	if err != nil {
		return nil, nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("拉取目录失败: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).WithField("body", string(raw)).Warn("目录上游返回非200")
		return nil, nil, fmt.Errorf("目录上游错误 %d", resp.StatusCode)
	}

	var payload chainsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("解析目录响应失败: %w", err)
	}

	var catalog []model.CatalogVariant
	var upsales []model.Upsale
	for _, block := range payload.Data {
		for _, rawItem := range block.Chain {
			var item map[string]any
			if err := json.Unmarshal(rawItem, &item); err != nil {
				c.logger.WithError(err).Warn("目录元素解析失败，跳过")
				continue
			}
			catalog = append(catalog, mapChainItem(item))
		}
		upsales = append(upsales, block.Upsales...)
	}
	return catalog, upsales, nil
}

// ninjaMerchantsResp /ninja-merchants 响应
type ninjaMerchantsResp struct {
	Success bool `json:"success"`
	Data    struct {
		CabinetID string `json:"cabinetId"`
		Merchants []struct {
			ID            int64    `json:"id"`
			Name          string   `json:"name"`
			Slug          string   `json:"slug"`
			DisplayName   *string  `json:"displayName"`
			ImagePath     *string  `json:"imagePath"`
			Currency      []string `json:"currency"`
			IntegrationID *int64   `json:"integrationId"`
			OpenNewTab    bool     `json:"openNewTab"`
			External      bool     `json:"hasExternalRedirect"`
		} `json:"merchants"`
	} `json:"data"`
}

// FetchMerchants 拉取支付方式。一个商户按币种拆成多条，slug+币种去重
func (c *Client) FetchMerchants(ctx context.Context) ([]model.PaymentMethod, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/ninja-merchants", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("拉取支付方式失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("支付方式上游错误 %d", resp.StatusCode)
	}

	var payload ninjaMerchantsResp
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("解析支付方式响应失败: %w", err)
	}

	seen := make(map[string]struct{})
	var methods []model.PaymentMethod
	for _, m := range payload.Data.Merchants {
		currencies := m.Currency
		if len(currencies) == 0 {
			currencies = []string{""}
		}
		for _, cur := range currencies {
			key := m.Slug + ":" + cur
			if cur == "" {
				key = m.Slug + ":nocur"
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			methods = append(methods, model.PaymentMethod{
				ID:            fmt.Sprintf("%d:%s", m.ID, cur),
				MerchantID:    m.ID,
				Slug:          m.Slug,
				Currency:      optString(cur),
				IntegrationID: m.IntegrationID,
				Title:         merchantTitle(m.Name, m.DisplayName, cur),
				ImageURL:      c.absImageURL(m.ImagePath),
				OpenNewTab:    m.OpenNewTab,
				External:      m.External,
			})
		}
	}
	return methods, nil
}

// merchantTitle 组合展示名："Name — DisplayName (CUR)"，缺什么省什么
func merchantTitle(name string, displayName *string, cur string) string {
	curLabel := strings.ToUpper(cur)
	if displayName != nil && *displayName != "" {
		if curLabel != "" {
			return fmt.Sprintf("%s — %s (%s)", name, *displayName, curLabel)
		}
		return fmt.Sprintf("%s — %s", name, *displayName)
	}
	if curLabel != "" {
		return fmt.Sprintf("%s — %s", name, curLabel)
	}
	return name
}

// absImageURL 相对图片路径补成绝对地址（取后端 base_url 的 scheme+host）
func (c *Client) absImageURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	if strings.HasPrefix(*path, "http") {
		return path
	}
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return path
	}
	abs := u.Scheme + "://" + u.Host + *path
	return &abs
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ValidatePromo 校验促销码，成功返回上游给出的新价格
func (c *Client) ValidatePromo(ctx context.Context, challengeTypeID, promoCode string) (float64, error) {
	body, err := json.Marshal(map[string]string{
		"challengeTypeId": challengeTypeID,
		"promoCode":       promoCode,
	})
	if err != nil {
		return 0, err
	}
	if c.debug {
		c.logger.WithField("body", string(body)).Info("promo-code 请求体")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/challenge-type/promo-code", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("促销码上游请求失败: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if c.debug {
		c.logger.WithField("status", resp.StatusCode).WithField("body", string(raw)).Info("promo-code 响应")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &UpstreamError{Status: resp.StatusCode, Raw: string(raw)}
	}

	var parsed map[string]any
	_ = json.Unmarshal(raw, &parsed)
	price, ok := pickPath(parsed, []string{"data.price"}).(float64)
	if !ok {
		return 0, &UpstreamError{Status: resp.StatusCode, Raw: string(raw), Message: "No price in response"}
	}
	return price, nil
}

// TraderData 下单请求里的客户信息
type TraderData struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone"`
	Language        string  `json:"language"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	Affiliate       *string `json:"affiliate"`
	PromoCode       *string `json:"promoCode"`
	Country         string  `json:"country"` // ISO: "UA","PL","ES",...
}

// CheckoutBody /v3/challenge-promo 请求体
type CheckoutBody struct {
	TraderData       TraderData `json:"traderData"`
	Merchant         string     `json:"merchant"`   // 商户 slug："yobopay" | "coinsbuy" | ...
	MerchantID       int64      `json:"merchantId"`
	IntegrationID    *int64     `json:"integrationId"`
	ChallengeTypeID  string     `json:"challengeTypeId"`
	Currency         string     `json:"currency"`         // 大写，如 "USD"
	OriginalCurrency string     `json:"originalCurrency"` // 小写，如 "usd"
	Amount           float64    `json:"amount"`
	Leverage         float64    `json:"leverage"`
	RegionID         string     `json:"regionId"`
}

// CheckoutResult 下单结果。RedirectURL 缺失时前端退回 Success/Pending/Error 三个备用地址
type CheckoutResult struct {
	RedirectURL *string
	SuccessURL  *string
	PendingURL  *string
	ErrorURL    *string
	Raw         []byte // 上游原始响应，落库留档
}

// UpstreamError 上游非2xx响应，保留原文便于排查
type UpstreamError struct {
	Status  int
	Raw     string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("上游错误 %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("上游错误 %d", e.Status)
}

// SubmitCheckout 提交下单请求，解析各已知格式里的跳转地址
func (c *Client) SubmitCheckout(ctx context.Context, body *CheckoutBody) (*CheckoutResult, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	if c.debug {
		c.logger.WithField("body", string(encoded)).Info("challenge-promo 请求体")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v3/challenge-promo", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下单上游请求失败: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if c.debug {
		c.logger.WithField("status", resp.StatusCode).WithField("body", string(raw)).Info("challenge-promo 响应")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Raw: string(raw)}
	}

	var parsed map[string]any
	_ = json.Unmarshal(raw, &parsed) // 解析失败时各地址保持为空，原文仍然返回

	return &CheckoutResult{
		RedirectURL: extractURL(parsed, redirectURLPaths),
		SuccessURL:  extractURL(parsed, []string{"data.successUrl"}),
		PendingURL:  extractURL(parsed, []string{"data.pendingUrl"}),
		ErrorURL:    extractURL(parsed, []string{"data.errorUrl"}),
		Raw:         raw,
	}, nil
}

func extractURL(parsed map[string]any, paths []string) *string {
	if s := asString(pickPath(parsed, paths)); s != "" {
		return &s
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
