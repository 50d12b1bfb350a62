package entity

import (
	"time"

	"gorm.io/gorm"
)

// Health grades a company's fundamentals from BEST down to WORSE.
type Health string

const (
	HealthBest   Health = "BEST"
	HealthGood   Health = "GOOD"
	HealthNormal Health = "NORMAL"
	HealthBad    Health = "BAD"
	HealthWorse  Health = "WORSE"
)

// Weight returns the ranking weight of the health grade, BEST=5 down to
// WORSE=1. Unknown grades weigh nothing.
func (h Health) Weight() int {
	switch h {
	case HealthBest:
		return 5
	case HealthGood:
		return 4
	case HealthNormal:
		return 3
	case HealthBad:
		return 2
	case HealthWorse:
		return 1
	default:
		return 0
	}
}

// Signal is a trading stance on a stock.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Weight returns the ranking weight of the signal, BUY=3, HOLD=2, SELL=1.
func (s Signal) Weight() int {
	switch s {
	case SignalBuy:
		return 3
	case SignalHold:
		return 2
	case SignalSell:
		return 1
	default:
		return 0
	}
}

// Stock is one listed company with its latest quote snapshot and derived
// labels. Refresh upserts rows keyed by symbol.
type Stock struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Symbol   string `gorm:"uniqueIndex;not null" json:"symbol"`
	Name     string `gorm:"not null" json:"name"`
	Exchange string `gorm:"default:NSE" json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	// Quote snapshot, always present.
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
	MarketCap float64 `json:"market_cap"`

	// Fundamental ratios, absent when the provider has no data.
	PERatio         *float64 `json:"pe_ratio,omitempty"`
	PBRatio         *float64 `json:"pb_ratio,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	ROCE            *float64 `json:"roce,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	EPS             *float64 `json:"eps,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`

	Health Health `gorm:"default:NORMAL" json:"health"`
	Signal Signal `gorm:"default:HOLD" json:"signal"`

	LastUpdated time.Time      `json:"last_updated"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Stock model.
func (Stock) TableName() string {
	return "stocks"
}
