package dto

// ProxyErrorResponse is the JSON envelope returned when a proxy relay fails.
// Fallback names an alternative provider the caller may try, when one exists.
type ProxyErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Fallback  string `json:"fallback,omitempty"`
}
