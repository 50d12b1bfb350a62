package telegram

import (
	"fmt"
	"strings"
	"time"

	"stock-advisor/internal/advisor/dto"
)

// FormatRecommendationMessage formats a generated recommendation set into a
// Markdown string for Telegram.
func FormatRecommendationMessage(response *dto.RecommendationResponse) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 *Stock Picks %s / %s*\n", response.TimeFrame, response.Sector))

	var sourceIcon string
	switch response.Source {
	case "ai":
		sourceIcon = "🤖"
	default:
		sourceIcon = "🧮"
	}
	sb.WriteString(fmt.Sprintf("%s Source: %s | Analyzed: %d stocks\n\n", sourceIcon, response.Source, response.AnalyzedCount))

	for _, rec := range response.Recommendations {
		var signalIcon string
		switch rec.Signal {
		case "BUY":
			signalIcon = "🟢"
		case "SELL":
			signalIcon = "🔴"
		default:
			signalIcon = "🟡"
		}

		sb.WriteString(fmt.Sprintf("%d. %s *%s* %s\n", rec.Rank, signalIcon, rec.Symbol, rec.Signal))
		sb.WriteString(fmt.Sprintf("   💰 Price: ₹%.2f", rec.CurrentPrice))
		if rec.TargetPrice != nil {
			sb.WriteString(fmt.Sprintf(" | 🎯 Target: ₹%.2f", *rec.TargetPrice))
		}
		if rec.StopLoss != nil {
			sb.WriteString(fmt.Sprintf(" | 🛡 Stop: ₹%.2f", *rec.StopLoss))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("   📊 Confidence: %d%%\n", rec.Confidence))
	}

	sb.WriteString(fmt.Sprintf("\n📅 _Generated: %s_\n", response.GeneratedAt.Format("2006-01-02 15:04:05")))

	return sb.String()
}

// FormatErrorAlertMessage formats a refresh or pipeline failure alert.
func FormatErrorAlertMessage(at time.Time, errType string, errMsg string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s
`, at.Format("2006-01-02 15:04:05"), errType, errMsg)
}
