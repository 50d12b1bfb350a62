package dto

// QuoteSnapshot is one stock's quote as fetched from the market-data source,
// before it is merged onto the universe entity. Ratio pointers are nil when
// the source reports no value.
type QuoteSnapshot struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	ChangePct float64  `json:"change_pct"`
	Volume    int64    `json:"volume"`
	MarketCap float64  `json:"market_cap"`
	PERatio   *float64 `json:"pe_ratio,omitempty"`
	PBRatio   *float64 `json:"pb_ratio,omitempty"`
	EPS       *float64 `json:"eps,omitempty"`
	ROE       *float64 `json:"roe,omitempty"`
}
