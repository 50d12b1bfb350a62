package repository

import (
	"fmt"
	"strings"

	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/entity"
)

// BuildRecommendationPrompt assembles the analysis prompt for one horizon
// over at most twenty candidate stocks. Recent headlines are included when
// available so the model can weigh market context.
func BuildRecommendationPrompt(timeFrame dto.TimeFrame, stocks []entity.Stock, headlines []entity.MarketNews) string {
	var stockBuilder strings.Builder
	for i, stock := range stocks {
		stockBuilder.WriteString(fmt.Sprintf(
			"%d. %s (%s)\n   Sector: %s | Price: ₹%.2f | Day Change: %+.2f%%\n   P/E: %s | P/B: %s | ROE: %s | Market Cap: ₹%.0f Cr\n   Fundamental Health: %s | Technical Signal: %s\n\n",
			i+1, stock.Symbol, stock.Name,
			stock.Sector, stock.Price, stock.ChangePct,
			formatRatio(stock.PERatio), formatRatio(stock.PBRatio), formatPercent(stock.ROE), stock.MarketCap/1e7,
			stock.Health, stock.Signal,
		))
	}

	newsText := ""
	if len(headlines) > 0 {
		var newsBuilder strings.Builder
		newsBuilder.WriteString("Recent market headlines for context:\n")
		for i, item := range headlines {
			newsBuilder.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, item.Title, item.Source))
		}
		newsBuilder.WriteString("\n")
		newsText = newsBuilder.String()
	}

	promptTemplate := `You are an equity research analyst covering the Indian stock market (NSE). Below are candidate stocks with their latest metrics:

%s
%sAnalyze the candidates for an investment horizon of %s and pick exactly the 5 best opportunities, ranked from strongest to weakest.

Evaluation criteria:
- Signal: "BUY", "SELL", or "HOLD" for the given horizon
- Confidence: integer between 0 (no conviction) and 100 (full conviction)
- AI Score: integer between 0 and 100 rating overall attractiveness
- Target Price: realistic price target in INR, only for BUY signals
- Reasoning: 2-3 short bullet points supporting the pick
- Risks: 1-2 short bullet points on what could go wrong

Respond in JSON with the following structure:
{
  "recommendations": [
    {
      "symbol": "RELIANCE",
      "signal": "BUY",
      "confidence": 82,
      "ai_score": 85,
      "target_price": 3150.00,
      "reasoning": ["<string>", "<string>"],
      "risks": ["<string>"]
    }
  ],
  "market_outlook": "<one sentence on the overall market>"
}

Only use symbols from the candidate list above. Answer with JSON only.
`

	return fmt.Sprintf(promptTemplate, stockBuilder.String(), newsText, timeFrame.Description())
}

func formatRatio(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v)
}
