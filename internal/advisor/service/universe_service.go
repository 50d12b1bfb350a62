package service

import (
	"context"
	"sync"

	"stock-advisor/internal/advisor/repository"
	"stock-advisor/internal/entity"
	"stock-advisor/pkg/logger"
)

// UniverseService owns the in-memory snapshot of the stock universe that the
// recommendation pipeline reads. The snapshot is loaded from the database and
// falls back to the embedded universe while the stocks table is still empty.
type UniverseService interface {
	Snapshot() []entity.Stock
	Lookup(symbol string) (entity.Stock, bool)
	Reload(ctx context.Context) error
}

type universeService struct {
	log        *logger.Logger
	stocksRepo repository.StocksRepository

	mu       sync.RWMutex
	stocks   []entity.Stock
	bySymbol map[string]int
}

// NewUniverseService creates a UniverseService primed with the embedded
// universe, so the pipeline can answer before the first database load.
func NewUniverseService(log *logger.Logger, stocksRepo repository.StocksRepository) UniverseService {
	s := &universeService{
		log:        log,
		stocksRepo: stocksRepo,
	}
	s.replace(defaultUniverse())
	return s
}

// Snapshot returns a copy of the current universe.
func (s *universeService) Snapshot() []entity.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Stock, len(s.stocks))
	copy(out, s.stocks)
	return out
}

// Lookup finds one stock by symbol.
func (s *universeService) Lookup(symbol string) (entity.Stock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.bySymbol[symbol]
	if !ok {
		return entity.Stock{}, false
	}
	return s.stocks[idx], true
}

// Reload replaces the snapshot from the database. An empty table keeps the
// embedded universe instead, so the pipeline never loses its stock source.
func (s *universeService) Reload(ctx context.Context) error {
	stocks, err := s.stocksRepo.GetStocks(ctx)
	if err != nil {
		s.log.Error("Failed to load stock universe, keeping current snapshot", logger.ErrorField(err))
		return err
	}
	if len(stocks) == 0 {
		s.log.Warn("Stocks table is empty, keeping embedded universe")
		return nil
	}

	s.replace(stocks)
	s.log.Info("Stock universe reloaded", logger.IntField("count", len(stocks)))
	return nil
}

func (s *universeService) replace(stocks []entity.Stock) {
	bySymbol := make(map[string]int, len(stocks))
	for i, stock := range stocks {
		bySymbol[stock.Symbol] = i
	}

	s.mu.Lock()
	s.stocks = stocks
	s.bySymbol = bySymbol
	s.mu.Unlock()
}
