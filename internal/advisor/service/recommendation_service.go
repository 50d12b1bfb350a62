package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/advisor/repository"
	"stock-advisor/internal/entity"
	"stock-advisor/pkg/cache"
	"stock-advisor/pkg/common"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/ratelimit"
	"stock-advisor/pkg/telegram"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ErrEmptyUniverse is returned when no stocks are available to analyze. It is
// the only error GetRecommendations surfaces; every upstream failure degrades
// to the deterministic ranker instead.
var ErrEmptyUniverse = errors.New("stock universe is empty")

// RecommendationService generates ranked stock picks per horizon and sector.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, timeFrame dto.TimeFrame, sector dto.SectorTag) (*dto.RecommendationResponse, error)
	ClearCache(ctx context.Context) error
}

type recommendationService struct {
	cfg      *config.Config
	log      *logger.Logger
	universe UniverseService
	aiRepo   repository.AIRepository
	cache    cache.Store
	limiter  *ratelimit.RequestLimiter
	recsRepo repository.RecommendationsRepository
	newsRepo repository.NewsRepository
	notifier telegram.Notifier

	nowFn func() time.Time
}

// NewRecommendationService creates the recommendation pipeline. recsRepo,
// newsRepo and notifier may be nil; auditing, headline context and
// notifications are then skipped.
func NewRecommendationService(
	cfg *config.Config,
	log *logger.Logger,
	universe UniverseService,
	aiRepo repository.AIRepository,
	cacheStore cache.Store,
	limiter *ratelimit.RequestLimiter,
	recsRepo repository.RecommendationsRepository,
	newsRepo repository.NewsRepository,
	notifier telegram.Notifier,
) RecommendationService {
	return &recommendationService{
		cfg:      cfg,
		log:      log,
		universe: universe,
		aiRepo:   aiRepo,
		cache:    cacheStore,
		limiter:  limiter,
		recsRepo: recsRepo,
		newsRepo: newsRepo,
		notifier: notifier,
		nowFn:    time.Now,
	}
}

// GetRecommendations returns the cached set for the horizon and sector while
// it is fresh, and generates a new one otherwise. Generation is paced by the
// shared request limiter, which delays callers rather than rejecting them.
// Concurrent misses for one key may each generate; the later write wins.
func (s *recommendationService) GetRecommendations(ctx context.Context, timeFrame dto.TimeFrame, sector dto.SectorTag) (*dto.RecommendationResponse, error) {
	key := cacheKey(timeFrame, sector)
	ttl := timeFrame.CacheTTL()

	if cached := s.lookupCache(ctx, key, ttl); cached != nil {
		s.log.Debug("Serving recommendations from cache", logger.StringField("key", key))
		return cached, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	universe := s.universe.Snapshot()
	if len(universe) == 0 {
		return nil, ErrEmptyUniverse
	}

	// An unpopulated sector falls back to ranking the whole universe rather
	// than answering with nothing.
	candidates := FilterBySector(universe, sector)
	if len(candidates) == 0 {
		s.log.Warn("No stocks matched sector, ranking full universe",
			logger.StringField("sector", string(sector)),
		)
		candidates = universe
	}

	recommendations, source := s.generate(ctx, timeFrame, candidates)

	response := &dto.RecommendationResponse{
		TimeFrame:       timeFrame,
		Sector:          sector,
		Recommendations: recommendations,
		AnalyzedCount:   len(candidates),
		Source:          source,
		GeneratedAt:     s.nowFn(),
	}

	s.storeCache(ctx, key, ttl, response)
	s.persistAudit(ctx, response)
	s.notify(response)

	return response, nil
}

// ClearCache drops every cached recommendation set.
func (s *recommendationService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// generate runs the AI analysis and degrades to the deterministic ranker on
// any failure.
func (s *recommendationService) generate(ctx context.Context, timeFrame dto.TimeFrame, candidates []entity.Stock) ([]dto.StockRecommendation, string) {
	recommendations, err := s.generateFromAI(ctx, timeFrame, candidates)
	if err != nil {
		s.log.Warn("AI analysis failed, using fallback ranking",
			logger.StringField("time_frame", string(timeFrame)),
			logger.ErrorField(err),
		)
		return s.buildFallback(timeFrame, candidates), common.RecommendationSourceFallback
	}
	return recommendations, common.RecommendationSourceAI
}

func (s *recommendationService) generateFromAI(ctx context.Context, timeFrame dto.TimeFrame, candidates []entity.Stock) ([]dto.StockRecommendation, error) {
	promptStocks := candidates
	if len(promptStocks) > common.MaxPromptStocks {
		promptStocks = promptStocks[:common.MaxPromptStocks]
	}

	prompt := repository.BuildRecommendationPrompt(timeFrame, promptStocks, s.recentHeadlines(ctx))

	set, err := s.aiRepo.GenerateRecommendations(ctx, prompt)
	if err != nil {
		return nil, err
	}

	recommendations := s.buildFromAISet(timeFrame, set, promptStocks)
	if len(recommendations) == 0 {
		return nil, fmt.Errorf("no valid recommendations after symbol filtering")
	}
	return recommendations, nil
}

// buildFromAISet converts the model's picks into the response shape. Symbols
// outside the candidate list are dropped, missing scores get defaults, and
// price levels follow the horizon's stop-loss rule.
func (s *recommendationService) buildFromAISet(timeFrame dto.TimeFrame, set *dto.AIRecommendationSet, promptStocks []entity.Stock) []dto.StockRecommendation {
	bySymbol := make(map[string]entity.Stock, len(promptStocks))
	for _, stock := range promptStocks {
		bySymbol[stock.Symbol] = stock
	}

	recommendations := make([]dto.StockRecommendation, 0, common.MaxRecommendations)
	for _, item := range set.Recommendations {
		if len(recommendations) == common.MaxRecommendations {
			break
		}

		stock, ok := bySymbol[strings.ToUpper(strings.TrimSpace(item.Symbol))]
		if !ok {
			s.log.Warn("Dropping recommendation for unknown symbol", logger.StringField("symbol", item.Symbol))
			continue
		}

		signal := normalizeSignal(item.Signal)

		confidence := common.DefaultConfidenceScore
		if item.Confidence != nil {
			confidence = clampScore(*item.Confidence)
		}
		aiScore := common.DefaultConfidenceScore
		if item.AIScore != nil {
			aiScore = clampScore(*item.AIScore)
		}

		recommendation := dto.StockRecommendation{
			Rank:         len(recommendations) + 1,
			Symbol:       stock.Symbol,
			Name:         stock.Name,
			Signal:       string(signal),
			Confidence:   confidence,
			AIScore:      aiScore,
			CurrentPrice: stock.Price,
			Reasoning:    item.Reasoning,
			Risks:        item.Risks,
			KeyMetrics:   buildKeyMetrics(stock),
		}
		if len(recommendation.Reasoning) == 0 {
			recommendation.Reasoning = []string{"Selected by model analysis"}
		}
		if len(recommendation.Risks) == 0 {
			recommendation.Risks = []string{"Market conditions may change rapidly"}
		}

		if signal == entity.SignalBuy {
			target := stock.Price * 1.10
			if item.TargetPrice != nil && *item.TargetPrice > 0 {
				target = *item.TargetPrice
			}
			recommendation.TargetPrice = roundTo2(target)
			recommendation.UpsidePct = upsidePct(stock.Price, *recommendation.TargetPrice)
		}
		recommendation.StopLoss = stopLossFor(timeFrame, signal, stock.Price)

		recommendations = append(recommendations, recommendation)
	}

	return recommendations
}

// buildFallback ranks candidates by fundamental health and technical signal
// weights, deterministically. Ties keep universe order, so the same inputs
// always produce the same set.
func (s *recommendationService) buildFallback(timeFrame dto.TimeFrame, candidates []entity.Stock) []dto.StockRecommendation {
	ranked := make([]entity.Stock, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return fallbackScore(ranked[i]) > fallbackScore(ranked[j])
	})

	count := len(ranked)
	if count > common.MaxRecommendations {
		count = common.MaxRecommendations
	}

	recommendations := make([]dto.StockRecommendation, 0, count)
	for i := 0; i < count; i++ {
		stock := ranked[i]
		confidence := 80 - 5*i

		recommendation := dto.StockRecommendation{
			Rank:         i + 1,
			Symbol:       stock.Symbol,
			Name:         stock.Name,
			Signal:       string(stock.Signal),
			Confidence:   confidence,
			AIScore:      confidence,
			CurrentPrice: stock.Price,
			Reasoning:    fallbackReasoning(stock),
			Risks:        []string{"Ranked by screening rules without model analysis"},
			KeyMetrics:   buildKeyMetrics(stock),
		}
		if stock.Signal == entity.SignalBuy {
			recommendation.TargetPrice = roundTo2(stock.Price * 1.10)
			recommendation.UpsidePct = upsidePct(stock.Price, *recommendation.TargetPrice)
		}
		recommendation.StopLoss = stopLossFor(timeFrame, stock.Signal, stock.Price)

		recommendations = append(recommendations, recommendation)
	}

	return recommendations
}

// recentHeadlines returns up to three fresh headlines for prompt context.
// Failures only cost the context, never the recommendation.
func (s *recommendationService) recentHeadlines(ctx context.Context) []entity.MarketNews {
	if s.newsRepo == nil {
		return nil
	}
	headlines, err := s.newsRepo.GetLatest(ctx, 3, 48*time.Hour)
	if err != nil {
		s.log.Warn("Failed to load headlines for prompt context", logger.ErrorField(err))
		return nil
	}
	return headlines
}

func (s *recommendationService) lookupCache(ctx context.Context, key string, ttl time.Duration) *dto.RecommendationResponse {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("Cache lookup failed", logger.StringField("key", key), logger.ErrorField(err))
		}
		return nil
	}

	var cached dto.RecommendationResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warn("Discarding undecodable cache entry", logger.StringField("key", key), logger.ErrorField(err))
		return nil
	}

	// Freshness is decided by the entry's own timestamp; the store's TTL is
	// only hygiene for backends that keep entries longer.
	if s.nowFn().Sub(cached.GeneratedAt) >= ttl {
		return nil
	}
	return &cached
}

func (s *recommendationService) storeCache(ctx context.Context, key string, ttl time.Duration, response *dto.RecommendationResponse) {
	raw, err := json.Marshal(response)
	if err != nil {
		s.log.Error("Failed to marshal response for cache", logger.ErrorField(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		s.log.Warn("Failed to store response in cache", logger.StringField("key", key), logger.ErrorField(err))
	}
}

func (s *recommendationService) persistAudit(ctx context.Context, response *dto.RecommendationResponse) {
	if s.recsRepo == nil {
		return
	}
	raw, err := json.Marshal(response)
	if err != nil {
		s.log.Error("Failed to marshal response for audit", logger.ErrorField(err))
		return
	}
	symbols := make(pq.StringArray, 0, len(response.Recommendations))
	for _, rec := range response.Recommendations {
		symbols = append(symbols, rec.Symbol)
	}
	record := &entity.StockRecommendation{
		TimeFrame:     string(response.TimeFrame),
		Sector:        string(response.Sector),
		Source:        response.Source,
		AnalyzedCount: response.AnalyzedCount,
		Symbols:       symbols,
		Data:          datatypes.JSON(raw),
		GeneratedAt:   response.GeneratedAt,
	}
	if err := s.recsRepo.Create(ctx, record); err != nil {
		s.log.Warn("Failed to persist recommendation audit", logger.ErrorField(err))
	}
}

func (s *recommendationService) notify(response *dto.RecommendationResponse) {
	if s.notifier == nil {
		return
	}
	message := telegram.FormatRecommendationMessage(response)
	if err := s.notifier.SendMessage(message); err != nil {
		s.log.Warn("Failed to send recommendation notification", logger.ErrorField(err))
	}
}

func cacheKey(timeFrame dto.TimeFrame, sector dto.SectorTag) string {
	return fmt.Sprintf("%s_%s", timeFrame, sector)
}

// fallbackScore combines fundamental health and technical signal weights.
func fallbackScore(stock entity.Stock) int {
	return stock.Health.Weight() + stock.Signal.Weight()
}

func fallbackReasoning(stock entity.Stock) []string {
	reasoning := []string{
		fmt.Sprintf("Fundamental health rated %s", stock.Health),
		fmt.Sprintf("Technical screen signals %s", stock.Signal),
	}
	if stock.ROE != nil && *stock.ROE > 15 {
		reasoning = append(reasoning, fmt.Sprintf("Return on equity at %.1f%%", *stock.ROE))
	}
	return reasoning
}

func buildKeyMetrics(stock entity.Stock) dto.KeyMetrics {
	return dto.KeyMetrics{
		Sector:       stock.Sector,
		DayChangePct: stock.ChangePct,
		MarketCap:    stock.MarketCap,
		PERatio:      stock.PERatio,
		PBRatio:      stock.PBRatio,
		ROE:          stock.ROE,
		Health:       string(stock.Health),
		Signal:       string(stock.Signal),
	}
}

// stopLossFor applies the horizon's protective stop below the current price.
// SELL picks carry no stop; there is no position left to protect.
func stopLossFor(timeFrame dto.TimeFrame, signal entity.Signal, price float64) *float64 {
	if signal == entity.SignalSell {
		return nil
	}
	return roundTo2(price * (1 - timeFrame.StopLossPct()))
}

func upsidePct(price, target float64) *float64 {
	if price <= 0 {
		return nil
	}
	return roundTo2((target - price) / price * 100)
}

func normalizeSignal(raw string) entity.Signal {
	switch entity.Signal(strings.ToUpper(strings.TrimSpace(raw))) {
	case entity.SignalBuy:
		return entity.SignalBuy
	case entity.SignalSell:
		return entity.SignalSell
	default:
		return entity.SignalHold
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundTo2(v float64) *float64 {
	rounded := math.Round(v*100) / 100
	return &rounded
}
