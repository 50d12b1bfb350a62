package service

import (
	"testing"

	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterBySector(t *testing.T) {
	stocks := []entity.Stock{
		{Symbol: "HDFCBANK", Sector: "Financial Services", Industry: "Private Bank"},
		{Symbol: "TCS", Sector: "Information Technology", Industry: "IT Services"},
		{Symbol: "SUNPHARMA", Sector: "Healthcare", Industry: "Pharmaceuticals"},
		{Symbol: "ICICIBANK", Sector: "Financial Services", Industry: "Private Bank"},
	}

	t.Run("all returns input unchanged", func(t *testing.T) {
		got := FilterBySector(stocks, dto.SectorAll)
		assert.Len(t, got, 4)
	})

	t.Run("matching preserves order", func(t *testing.T) {
		got := FilterBySector(stocks, dto.SectorBanking)
		require.Len(t, got, 2)
		assert.Equal(t, "HDFCBANK", got[0].Symbol)
		assert.Equal(t, "ICICIBANK", got[1].Symbol)
	})

	t.Run("single match", func(t *testing.T) {
		got := FilterBySector(stocks, dto.SectorPharma)
		require.Len(t, got, 1)
		assert.Equal(t, "SUNPHARMA", got[0].Symbol)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		got := FilterBySector(stocks, dto.SectorMetal)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterBySector(nil, dto.SectorBanking))
	})
}

func TestDefaultUniverseCoversEverySector(t *testing.T) {
	universe := defaultUniverse()
	require.NotEmpty(t, universe)

	seen := map[string]bool{}
	for _, stock := range universe {
		require.NotEmpty(t, stock.Symbol)
		require.NotEmpty(t, stock.Name)
		assert.Equal(t, "NSE", stock.Exchange)
		assert.Greater(t, stock.Price, 0.0)
		require.False(t, seen[stock.Symbol], "duplicate symbol %s", stock.Symbol)
		seen[stock.Symbol] = true
	}

	// Every non-ALL tag should land at least one stock, so sector queries
	// work out of the box.
	for _, tag := range dto.SectorTags {
		if tag == dto.SectorAll {
			continue
		}
		assert.NotEmpty(t, FilterBySector(universe, tag), "sector %s has no stocks", tag)
	}
}
