package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/utils"
)

var (
	// ErrUnknownProvider is returned when the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrProviderNotConfigured is returned when a provider needs an API key and none is set.
	ErrProviderNotConfigured = errors.New("provider API key is not configured")
)

// MissingParameterError reports a required query parameter that was absent.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

// UpstreamError reports a provider call that failed at or past the upstream API.
type UpstreamError struct {
	Provider string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s upstream failed with status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s upstream failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ProxyService relays requests to third-party market-data providers, keeping
// API keys on the server side and normalizing failures for the HTTP layer.
type ProxyService interface {
	Relay(ctx context.Context, provider string, query url.Values) ([]byte, error)
	Providers() []string
}

type relayFunc func(ctx context.Context, query url.Values) ([]byte, error)

type proxyService struct {
	cfg    *config.Config
	log    *logger.Logger
	client *http.Client
	relays map[string]relayFunc
}

// NewProxyService creates a new ProxyService.
func NewProxyService(cfg *config.Config, log *logger.Logger) ProxyService {
	s := &proxyService{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	s.relays = map[string]relayFunc{
		"yahoo":        s.relayYahoo,
		"alphavantage": s.relayAlphaVantage,
		"fmp":          s.relayFMP,
		"polygon":      s.relayPolygon,
		"iex":          s.relayIEX,
		"rapidapi":     s.relayRapidAPI,
	}
	return s
}

// Relay forwards one request to the named provider and returns the raw
// upstream JSON body.
func (s *proxyService) Relay(ctx context.Context, provider string, query url.Values) ([]byte, error) {
	relay, ok := s.relays[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return relay(ctx, query)
}

// Providers lists the registered provider names in sorted order.
func (s *proxyService) Providers() []string {
	names := make([]string, 0, len(s.relays))
	for name := range s.relays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// relayYahoo serves chart data by default and quoteSummary when modules is set.
// Yahoo's public query endpoints need no API key.
func (s *proxyService) relayYahoo(ctx context.Context, query url.Values) ([]byte, error) {
	symbol, err := requiredParam(query, "symbol")
	if err != nil {
		return nil, err
	}

	if modules := strings.TrimSpace(query.Get("modules")); modules != "" {
		upstreamURL := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=%s",
			url.PathEscape(symbol), url.QueryEscape(modules))
		return s.fetchJSON(ctx, "yahoo", upstreamURL, nil)
	}

	chartRange := query.Get("range")
	if chartRange == "" {
		chartRange = "1mo"
	}
	interval := query.Get("interval")
	if interval == "" {
		interval = "1d"
	}
	upstreamURL := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?range=%s&interval=%s",
		url.PathEscape(symbol), url.QueryEscape(chartRange), url.QueryEscape(interval))
	return s.fetchJSON(ctx, "yahoo", upstreamURL, nil)
}

// relayAlphaVantage passes the caller's query through and adds the API key.
// Alpha Vantage routes everything by the function parameter.
func (s *proxyService) relayAlphaVantage(ctx context.Context, query url.Values) ([]byte, error) {
	key := s.cfg.AlphaVantage.APIKey
	if key == "" {
		return nil, fmt.Errorf("%w: alphavantage", ErrProviderNotConfigured)
	}
	if _, err := requiredParam(query, "function"); err != nil {
		return nil, err
	}

	params := cloneValues(query)
	params.Set("apikey", key)
	return s.fetchJSON(ctx, "alphavantage", "https://www.alphavantage.co/query?"+params.Encode(), nil)
}

func (s *proxyService) relayFMP(ctx context.Context, query url.Values) ([]byte, error) {
	key := s.cfg.FMP.APIKey
	if key == "" {
		return nil, fmt.Errorf("%w: fmp", ErrProviderNotConfigured)
	}
	endpoint, err := requiredParam(query, "endpoint")
	if err != nil {
		return nil, err
	}
	symbol, err := requiredParam(query, "symbol")
	if err != nil {
		return nil, err
	}

	params := cloneValues(query)
	params.Del("endpoint")
	params.Del("symbol")
	params.Set("apikey", key)
	upstreamURL := fmt.Sprintf("https://financialmodelingprep.com/api/v3/%s/%s?%s",
		strings.Trim(endpoint, "/"), url.PathEscape(symbol), params.Encode())
	return s.fetchJSON(ctx, "fmp", upstreamURL, nil)
}

// relayPolygon forwards to an arbitrary Polygon REST path given in endpoint,
// e.g. v2/aggs/ticker/AAPL/prev.
func (s *proxyService) relayPolygon(ctx context.Context, query url.Values) ([]byte, error) {
	key := s.cfg.Polygon.APIKey
	if key == "" {
		return nil, fmt.Errorf("%w: polygon", ErrProviderNotConfigured)
	}
	endpoint, err := requiredParam(query, "endpoint")
	if err != nil {
		return nil, err
	}

	params := cloneValues(query)
	params.Del("endpoint")
	params.Set("apiKey", key)
	upstreamURL := fmt.Sprintf("https://api.polygon.io/%s?%s", strings.Trim(endpoint, "/"), params.Encode())
	return s.fetchJSON(ctx, "polygon", upstreamURL, nil)
}

func (s *proxyService) relayIEX(ctx context.Context, query url.Values) ([]byte, error) {
	key := s.cfg.IEX.APIKey
	if key == "" {
		return nil, fmt.Errorf("%w: iex", ErrProviderNotConfigured)
	}
	endpoint, err := requiredParam(query, "endpoint")
	if err != nil {
		return nil, err
	}

	params := cloneValues(query)
	params.Del("endpoint")
	params.Set("token", key)
	upstreamURL := fmt.Sprintf("https://cloud.iexapis.com/stable/%s?%s", strings.Trim(endpoint, "/"), params.Encode())
	return s.fetchJSON(ctx, "iex", upstreamURL, nil)
}

// rapidAPIMirrors are Yahoo Finance mirrors behind RapidAPI, tried in order.
var rapidAPIMirrors = []struct {
	host string
	path string
}{
	{host: "yh-finance.p.rapidapi.com", path: "/stock/v2/get-summary?symbol=%s&region=IN"},
	{host: "apidojo-yahoo-finance-v1.p.rapidapi.com", path: "/stock/v2/get-summary?symbol=%s&region=IN"},
	{host: "yahoo-finance15.p.rapidapi.com", path: "/api/yahoo/qu/quote/%s"},
}

// relayRapidAPI tries each mirror until one returns a usable body. The
// aggregated error carries the last mirror's failure.
func (s *proxyService) relayRapidAPI(ctx context.Context, query url.Values) ([]byte, error) {
	key := s.cfg.RapidAPI.APIKey
	if key == "" {
		return nil, fmt.Errorf("%w: rapidapi", ErrProviderNotConfigured)
	}
	symbol, err := requiredParam(query, "symbol")
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i, mirror := range rapidAPIMirrors {
		upstreamURL := "https://" + mirror.host + fmt.Sprintf(mirror.path, url.QueryEscape(symbol))
		header := http.Header{}
		header.Set("X-RapidAPI-Key", key)
		header.Set("X-RapidAPI-Host", mirror.host)

		body, err := s.fetchJSON(ctx, "rapidapi", upstreamURL, header)
		if err == nil {
			return body, nil
		}
		lastErr = err
		s.log.Warn("RapidAPI mirror failed",
			logger.StringField("host", mirror.host),
			logger.IntField("attempt", i+1),
			logger.ErrorField(err),
		)
	}

	return nil, &UpstreamError{
		Provider: "rapidapi",
		Err:      fmt.Errorf("all %d mirrors failed, last error: %w", len(rapidAPIMirrors), lastErr),
	}
}

// fetchJSON performs the upstream request and returns the body only when it
// is a non-empty 2xx JSON payload.
func (s *proxyService) fetchJSON(ctx context.Context, provider, upstreamURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", upstreamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")
	for name, values := range header {
		for _, value := range values {
			req.Header.Set(name, value)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Provider: provider, Status: resp.StatusCode, Err: fmt.Errorf("failed to read upstream body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Provider: provider,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("upstream returned: %s", utils.TruncateString(string(body), 200)),
		}
	}
	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return nil, &UpstreamError{Provider: provider, Status: resp.StatusCode, Err: errors.New("upstream returned an empty or non-JSON body")}
	}
	return body, nil
}

func requiredParam(query url.Values, name string) (string, error) {
	value := strings.TrimSpace(query.Get(name))
	if value == "" {
		return "", &MissingParameterError{Param: name}
	}
	return value, nil
}

func cloneValues(query url.Values) url.Values {
	out := make(url.Values, len(query))
	for name, values := range query {
		for _, value := range values {
			out.Add(name, value)
		}
	}
	return out
}
