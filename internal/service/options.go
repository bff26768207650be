package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ChallengeCheckout/internal/adapter/merchant"
	"ChallengeCheckout/internal/model"

	"github.com/sirupsen/logrus"
)

// OptionsService 目录快照服务：拉取上游目录与支付方式，聚合出选择器用的列表。
// 快照在 TTL 内复用，过期后下一次请求重新拉取
type OptionsService struct {
	client   *merchant.Client
	logger   *logrus.Logger
	cacheTTL time.Duration

	mu       sync.Mutex
	cached   *model.OptionsSnapshot
	cachedAt time.Time
}

// NewOptionsService 创建 OptionsService
func NewOptionsService(client *merchant.Client, cacheTTL time.Duration, logger *logrus.Logger) *OptionsService {
	return &OptionsService{
		client:   client,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// GetSnapshot 返回目录快照，必要时重新拉取
func (s *OptionsService) GetSnapshot(ctx context.Context) (*model.OptionsSnapshot, error) {
	s.mu.Lock()
	if s.cached != nil && s.cacheTTL > 0 && time.Since(s.cachedAt) < s.cacheTTL {
		snap := s.cached
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	catalog, upsales, err := s.client.FetchChains(ctx)
	if err != nil {
		return nil, err
	}
	snap := buildSnapshot(catalog, upsales)
	s.logger.WithField("catalog", len(snap.Catalog)).
		WithField("upsales", len(snap.Upsales)).
		WithField("platforms", len(snap.Platforms)).
		Info("目录快照已刷新")

	s.mu.Lock()
	s.cached = snap
	s.cachedAt = time.Now()
	s.mu.Unlock()
	return snap, nil
}

// GetPaymentMethods 返回支付方式列表。上游失败时降级为空列表，不阻塞页面
func (s *OptionsService) GetPaymentMethods(ctx context.Context) []model.PaymentMethod {
	methods, err := s.client.FetchMerchants(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("拉取支付方式失败，返回空列表")
		return []model.PaymentMethod{}
	}
	return methods
}

// buildSnapshot 聚合选择器列表：平台按首次出现顺序去重，类别排序去重，资金档位数值排序去重
func buildSnapshot(catalog []model.CatalogVariant, upsales []model.Upsale) *model.OptionsSnapshot {
	snap := &model.OptionsSnapshot{
		Catalog: catalog,
		Upsales: upsales,
	}

	seenPlatform := make(map[string]struct{})
	seenChallenge := make(map[string]struct{})
	seenCapital := make(map[float64]struct{})
	for _, v := range catalog {
		if v.Platform != "" {
			if _, ok := seenPlatform[v.Platform]; !ok {
				seenPlatform[v.Platform] = struct{}{}
				snap.Platforms = append(snap.Platforms, v.Platform)
			}
		}
		if v.Challenge != "" {
			if _, ok := seenChallenge[v.Challenge]; !ok {
				seenChallenge[v.Challenge] = struct{}{}
				snap.Challenges = append(snap.Challenges, v.Challenge)
			}
		}
		if _, ok := seenCapital[v.Capital]; !ok && v.Capital > 0 {
			seenCapital[v.Capital] = struct{}{}
			snap.Capitals = append(snap.Capitals, v.Capital)
		}
	}
	sort.Strings(snap.Challenges)
	sort.Float64s(snap.Capitals)
	return snap
}
