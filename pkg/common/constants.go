package common

const (
	// Provenance values recorded on every recommendation response.
	RecommendationSourceAI       = "ai"
	RecommendationSourceFallback = "fallback"

	// Bounds for the analysis pipeline.
	MaxPromptStocks    = 20
	MaxRecommendations = 5

	// DefaultConfidenceScore fills confidence and AI score when the model
	// omits them.
	DefaultConfidenceScore = 75

	// AIRequestsPerMinute caps analysis calls across all callers.
	AIRequestsPerMinute = 10
)

const (
	AIProviderOpenRouter = "openrouter"
	AIProviderGemini     = "gemini"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)
