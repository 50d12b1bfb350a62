package dto

import (
	"time"
)

// KeyMetrics is the metric snapshot shown alongside each recommendation. It
// mirrors what the analysis prompt saw, so a reader can judge the advice.
type KeyMetrics struct {
	Sector       string   `json:"sector"`
	DayChangePct float64  `json:"day_change_pct"`
	MarketCap    float64  `json:"market_cap"`
	PERatio      *float64 `json:"pe_ratio,omitempty"`
	PBRatio      *float64 `json:"pb_ratio,omitempty"`
	ROE          *float64 `json:"roe,omitempty"`
	Health       string   `json:"health"`
	Signal       string   `json:"signal"`
}

// StockRecommendation is one ranked pick inside a recommendation set.
//
// StopLoss is nil exactly when the signal is SELL; there is no position left
// to protect. TargetPrice is nil unless the pick is a BUY. UpsidePct follows
// TargetPrice.
type StockRecommendation struct {
	Rank         int        `json:"rank"`
	Symbol       string     `json:"symbol"`
	Name         string     `json:"name"`
	Signal       string     `json:"signal"`
	Confidence   int        `json:"confidence"`
	AIScore      int        `json:"ai_score"`
	CurrentPrice float64    `json:"current_price"`
	TargetPrice  *float64   `json:"target_price,omitempty"`
	StopLoss     *float64   `json:"stop_loss,omitempty"`
	UpsidePct    *float64   `json:"upside_pct,omitempty"`
	Reasoning    []string   `json:"reasoning"`
	Risks        []string   `json:"risks"`
	KeyMetrics   KeyMetrics `json:"key_metrics"`
}

// RecommendationResponse is one generated recommendation set. Source records
// whether the model or the deterministic ranker produced it.
type RecommendationResponse struct {
	TimeFrame       TimeFrame             `json:"time_frame"`
	Sector          SectorTag             `json:"sector"`
	Recommendations []StockRecommendation `json:"recommendations"`
	AnalyzedCount   int                   `json:"analyzed_count"`
	Source          string                `json:"source"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
