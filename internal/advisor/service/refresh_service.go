package service

import (
	"context"
	"fmt"
	"time"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/advisor/repository"
	"stock-advisor/internal/entity"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/telegram"
	"stock-advisor/pkg/utils"

	"github.com/robfig/cron/v3"
)

// RefreshService keeps the stock universe, the news store, and optionally the
// recommendation cache warm on cron schedules.
type RefreshService interface {
	Start(ctx context.Context) error
	Stop()
	RefreshQuotes(ctx context.Context) error
	HarvestNews(ctx context.Context) error
	PrewarmCache(ctx context.Context) error
}

type refreshService struct {
	cfg            *config.Config
	log            *logger.Logger
	universe       UniverseService
	marketDataRepo repository.MarketDataRepository
	stocksRepo     repository.StocksRepository
	newsService    NewsService
	recommendation RecommendationService
	notifier       telegram.Notifier
	cron           *cron.Cron
}

// NewRefreshService creates a new RefreshService. The notifier may be nil, in
// which case failures are only logged.
func NewRefreshService(
	cfg *config.Config,
	log *logger.Logger,
	universe UniverseService,
	marketDataRepo repository.MarketDataRepository,
	stocksRepo repository.StocksRepository,
	newsService NewsService,
	recommendation RecommendationService,
	notifier telegram.Notifier,
) RefreshService {
	return &refreshService{
		cfg:            cfg,
		log:            log,
		universe:       universe,
		marketDataRepo: marketDataRepo,
		stocksRepo:     stocksRepo,
		newsService:    newsService,
		recommendation: recommendation,
		notifier:       notifier,
	}
}

// Start registers the configured schedules and starts the cron runner. An
// empty schedule disables its job.
func (s *refreshService) Start(ctx context.Context) error {
	runner := cron.New()

	if schedule := s.cfg.Refresh.QuoteSchedule; schedule != "" {
		if _, err := runner.AddFunc(schedule, func() { s.runQuoteRefresh(ctx) }); err != nil {
			return fmt.Errorf("invalid quote schedule %q: %w", schedule, err)
		}
	}
	if schedule := s.cfg.Refresh.NewsSchedule; schedule != "" {
		if _, err := runner.AddFunc(schedule, func() { s.runNewsHarvest(ctx) }); err != nil {
			return fmt.Errorf("invalid news schedule %q: %w", schedule, err)
		}
	}
	if schedule := s.cfg.Refresh.PrewarmSchedule; schedule != "" {
		if _, err := runner.AddFunc(schedule, func() { s.runPrewarm(ctx) }); err != nil {
			return fmt.Errorf("invalid prewarm schedule %q: %w", schedule, err)
		}
	}

	s.cron = runner
	runner.Start()
	s.log.Info("Refresh service started",
		logger.StringField("quote_schedule", s.cfg.Refresh.QuoteSchedule),
		logger.StringField("news_schedule", s.cfg.Refresh.NewsSchedule),
		logger.StringField("prewarm_schedule", s.cfg.Refresh.PrewarmSchedule),
	)
	return nil
}

// Stop halts the cron runner and waits for in-flight jobs to finish.
func (s *refreshService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("Refresh service stopped")
}

// RefreshQuotes pulls a fresh quote for every universe symbol, re-derives the
// health and signal labels, and stores the result. Individual symbol failures
// are tolerated; the refresh fails only when no symbol could be updated.
func (s *refreshService) RefreshQuotes(ctx context.Context) error {
	stocks := s.universe.Snapshot()
	if len(stocks) == 0 {
		s.log.Warn("Quote refresh skipped, universe is empty")
		return nil
	}

	updated := make([]entity.Stock, 0, len(stocks))
	failed := 0
	for i := range stocks {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		stock := stocks[i]
		quote, err := s.marketDataRepo.FetchQuote(ctx, stock.Symbol)
		if err != nil {
			failed++
			s.log.Warn("Failed to fetch quote", logger.StringField("symbol", stock.Symbol), logger.ErrorField(err))
			continue
		}

		merged := mergeQuote(stock, quote)
		merged.Health = deriveHealth(merged)
		merged.Signal = deriveSignal(merged.ChangePct, merged.Health)
		merged.LastUpdated = time.Now()
		updated = append(updated, merged)
	}

	if len(updated) == 0 {
		return fmt.Errorf("no quotes refreshed, %d symbols failed", failed)
	}
	if err := s.stocksRepo.UpsertQuotes(ctx, updated); err != nil {
		return fmt.Errorf("failed to store refreshed quotes: %w", err)
	}
	if err := s.universe.Reload(ctx); err != nil {
		s.log.Warn("Failed to reload universe after refresh", logger.ErrorField(err))
	}

	s.log.Info("Quote refresh complete",
		logger.IntField("updated", len(updated)),
		logger.IntField("failed", failed),
	)
	return nil
}

// HarvestNews pulls the configured RSS feeds once.
func (s *refreshService) HarvestNews(ctx context.Context) error {
	stored, err := s.newsService.Harvest(ctx)
	if err != nil {
		return err
	}
	s.log.Info("News harvest complete", logger.IntField("stored", stored))
	return nil
}

// PrewarmCache generates recommendations for the configured time frame so the
// first dashboard request after expiry does not pay the model latency.
func (s *refreshService) PrewarmCache(ctx context.Context) error {
	raw := s.cfg.Refresh.PrewarmTimeFrame
	if raw == "" {
		raw = string(dto.TimeFrame7D)
	}
	timeFrame, err := dto.ParseTimeFrame(raw)
	if err != nil {
		return fmt.Errorf("invalid prewarm time frame: %w", err)
	}
	if _, err := s.recommendation.GetRecommendations(ctx, timeFrame, dto.SectorAll); err != nil {
		return fmt.Errorf("failed to prewarm recommendations: %w", err)
	}
	return nil
}

func (s *refreshService) runQuoteRefresh(ctx context.Context) {
	if s.cfg.Refresh.MarketHoursOnly && !utils.IsMarketOpenIST(utils.TimeNowIST()) {
		s.log.Debug("Skipping quote refresh outside market hours")
		return
	}
	if err := s.RefreshQuotes(ctx); err != nil {
		s.log.Error("Quote refresh failed", logger.ErrorField(err))
		s.alert("Quote Refresh", err)
	}
}

func (s *refreshService) runNewsHarvest(ctx context.Context) {
	if err := s.HarvestNews(ctx); err != nil {
		s.log.Error("News harvest failed", logger.ErrorField(err))
		s.alert("News Harvest", err)
	}
}

func (s *refreshService) runPrewarm(ctx context.Context) {
	if err := s.PrewarmCache(ctx); err != nil {
		s.log.Error("Cache prewarm failed", logger.ErrorField(err))
		s.alert("Cache Prewarm", err)
	}
}

func (s *refreshService) alert(task string, err error) {
	if s.notifier == nil {
		return
	}
	message := telegram.FormatErrorAlertMessage(utils.TimeNowIST(), task, err.Error())
	if sendErr := s.notifier.SendMessage(message); sendErr != nil {
		s.log.Warn("Failed to send error alert", logger.ErrorField(sendErr))
	}
}

// mergeQuote lays the fresh quote over the stored row, keeping fundamentals
// the quote endpoint does not carry.
func mergeQuote(stock entity.Stock, quote *dto.QuoteSnapshot) entity.Stock {
	stock.Price = quote.Price
	stock.ChangePct = quote.ChangePct
	stock.Volume = quote.Volume
	if quote.MarketCap > 0 {
		stock.MarketCap = quote.MarketCap
	}
	if quote.Name != "" {
		stock.Name = quote.Name
	}
	if quote.PERatio != nil {
		stock.PERatio = quote.PERatio
	}
	if quote.PBRatio != nil {
		stock.PBRatio = quote.PBRatio
	}
	if quote.EPS != nil {
		stock.EPS = quote.EPS
	}
	if quote.ROE != nil {
		stock.ROE = quote.ROE
	}
	return stock
}

// deriveHealth grades fundamentals on a simple additive score. Ratios the
// provider did not supply contribute nothing.
func deriveHealth(stock entity.Stock) entity.Health {
	score := 0
	if stock.ROE != nil {
		switch {
		case *stock.ROE >= 18:
			score += 2
		case *stock.ROE >= 12:
			score++
		case *stock.ROE < 8:
			score--
		}
	}
	if stock.DebtToEquity != nil {
		switch {
		case *stock.DebtToEquity <= 0.5:
			score++
		case *stock.DebtToEquity > 2:
			score--
		}
	}
	if stock.OperatingMargin != nil {
		switch {
		case *stock.OperatingMargin >= 18:
			score++
		case *stock.OperatingMargin < 8:
			score--
		}
	}
	if stock.NetMargin != nil && *stock.NetMargin >= 12 {
		score++
	}

	switch {
	case score >= 4:
		return entity.HealthBest
	case score >= 2:
		return entity.HealthGood
	case score >= 0:
		return entity.HealthNormal
	case score == -1:
		return entity.HealthBad
	default:
		return entity.HealthWorse
	}
}

// deriveSignal turns day momentum plus health into a coarse stance.
func deriveSignal(dayChangePct float64, health entity.Health) entity.Signal {
	switch {
	case dayChangePct >= 1.0 && health.Weight() >= entity.HealthNormal.Weight():
		return entity.SignalBuy
	case dayChangePct <= -2.0:
		return entity.SignalSell
	case dayChangePct <= -1.0 && health.Weight() <= entity.HealthBad.Weight():
		return entity.SignalSell
	default:
		return entity.SignalHold
	}
}
