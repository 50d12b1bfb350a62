package dto

// AIRecommendationItem is one pick inside the model's JSON reply. Pointer
// fields distinguish an omitted value from a zero, so defaults can be applied
// at the parsing boundary.
type AIRecommendationItem struct {
	Symbol      string   `json:"symbol"`
	Signal      string   `json:"signal"`
	Confidence  *int     `json:"confidence,omitempty"`
	AIScore     *int     `json:"ai_score,omitempty"`
	TargetPrice *float64 `json:"target_price,omitempty"`
	Reasoning   []string `json:"reasoning,omitempty"`
	Risks       []string `json:"risks,omitempty"`
}

// AIRecommendationSet is the JSON object the analysis prompt asks the model
// to return.
type AIRecommendationSet struct {
	Recommendations []AIRecommendationItem `json:"recommendations"`
	MarketOutlook   string                 `json:"market_outlook,omitempty"`
}

// GeminiAPIRequest is the request payload for the Gemini API.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content represents the content of a request or response.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a part of the content.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the response from the Gemini API.
type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}
