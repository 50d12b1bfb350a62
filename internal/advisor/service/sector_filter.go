package service

import (
	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/entity"
)

// FilterBySector returns the stocks belonging to the given sector tag,
// preserving input order. ALL returns the input unchanged. A tag that matches
// nothing yields an empty slice; the caller decides what to do with it.
func FilterBySector(stocks []entity.Stock, tag dto.SectorTag) []entity.Stock {
	if tag == dto.SectorAll {
		return stocks
	}
	filtered := make([]entity.Stock, 0, len(stocks))
	for _, stock := range stocks {
		if tag.Matches(stock.Sector, stock.Industry) {
			filtered = append(filtered, stock)
		}
	}
	return filtered
}
