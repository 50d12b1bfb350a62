package repository

import (
	"context"

	"stock-advisor/internal/advisor/dto"
)

// AIRepository generates a ranked recommendation set from an analysis prompt.
// Implementations talk to one model provider and parse its free-text reply
// into the documented JSON contract.
type AIRepository interface {
	GenerateRecommendations(ctx context.Context, prompt string) (*dto.AIRecommendationSet, error)
}
