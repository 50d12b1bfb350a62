package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/internal/advisor/dto"
	"stock-advisor/pkg/logger"

	"golang.org/x/time/rate"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// openRouterRepository is an implementation of AIRepository that uses the
// OpenRouter chat-completion API.
type openRouterRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewOpenRouterRepository creates a new instance of openRouterRepository.
func NewOpenRouterRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	perMinute := cfg.AI.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	return &openRouterRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

// GenerateRecommendations sends the analysis prompt to OpenRouter and parses
// the ranked recommendation set out of the reply.
func (r *openRouterRepository) GenerateRecommendations(ctx context.Context, prompt string) (*dto.AIRecommendationSet, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	requestBody := map[string]interface{}{
		"model": r.cfg.OpenRouter.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		r.logger.Error("Failed to marshal request body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	apiURL := r.cfg.OpenRouter.BaseURL
	if apiURL == "" {
		apiURL = defaultOpenRouterURL
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		r.logger.Error("Failed to create new HTTP request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.cfg.OpenRouter.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to OpenRouter", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Received non-OK response from OpenRouter", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from OpenRouter: %d", resp.StatusCode)
	}

	var openRouterResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&openRouterResponse); err != nil {
		r.logger.Error("Failed to decode OpenRouter response", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode OpenRouter response: %w", err)
	}

	if len(openRouterResponse.Choices) == 0 {
		r.logger.Warn("Received empty choices from OpenRouter")
		return nil, fmt.Errorf("received empty choices from OpenRouter")
	}

	content := openRouterResponse.Choices[0].Message.Content
	r.logger.Debug("Received recommendations from OpenRouter", logger.StringField("content", content))

	return parseRecommendationSet(content)
}

// parseRecommendationSet pulls the JSON object out of a model reply and
// decodes it. Replies with no usable object or no recommendations at all are
// errors; the caller decides whether to fall back.
func parseRecommendationSet(content string) (*dto.AIRecommendationSet, error) {
	jsonObject, ok := ExtractJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in model reply")
	}

	var result dto.AIRecommendationSet
	if err := json.Unmarshal([]byte(jsonObject), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation set: %w", err)
	}

	if len(result.Recommendations) == 0 {
		return nil, fmt.Errorf("model reply contained no recommendations")
	}

	return &result, nil
}
