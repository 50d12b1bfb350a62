package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUpstream struct {
	status int
	body   string
}

type stubTransport struct {
	mu       sync.Mutex
	byHost   map[string]stubUpstream
	requests []*http.Request
}

func (t *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	upstream, ok := t.byHost[req.URL.Host]
	t.mu.Unlock()
	if !ok {
		upstream = stubUpstream{status: http.StatusNotFound, body: `{"error":"no stub for host"}`}
	}
	return &http.Response{
		StatusCode: upstream.status,
		Body:       io.NopCloser(strings.NewReader(upstream.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func newTestProxyService(cfg *config.Config, transport *stubTransport) *proxyService {
	svc := NewProxyService(cfg, logger.NewNop()).(*proxyService)
	if transport != nil {
		svc.client = &http.Client{Transport: transport}
	}
	return svc
}

func TestRelayUnknownProvider(t *testing.T) {
	svc := newTestProxyService(&config.Config{}, nil)

	_, err := svc.Relay(context.Background(), "bloomberg", url.Values{})
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRelayProviderNameIsCaseInsensitive(t *testing.T) {
	svc := newTestProxyService(&config.Config{}, nil)

	_, err := svc.Relay(context.Background(), " Polygon ", url.Values{})
	require.NotErrorIs(t, err, ErrUnknownProvider)
	require.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestRelayMissingParameter(t *testing.T) {
	svc := newTestProxyService(&config.Config{}, nil)

	_, err := svc.Relay(context.Background(), "yahoo", url.Values{})
	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "symbol", missing.Param)
}

func TestRelayKeyedProvidersRequireConfiguration(t *testing.T) {
	svc := newTestProxyService(&config.Config{}, nil)

	for _, provider := range []string{"alphavantage", "fmp", "polygon", "iex", "rapidapi"} {
		t.Run(provider, func(t *testing.T) {
			_, err := svc.Relay(context.Background(), provider, url.Values{})
			require.ErrorIs(t, err, ErrProviderNotConfigured)
		})
	}
}

func TestProviders(t *testing.T) {
	svc := newTestProxyService(&config.Config{}, nil)

	assert.Equal(t, []string{"alphavantage", "fmp", "iex", "polygon", "rapidapi", "yahoo"}, svc.Providers())
}

func TestRelayYahooChartDefaults(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{
		"query1.finance.yahoo.com": {status: http.StatusOK, body: `{"chart":{"result":[]}}`},
	}}
	svc := newTestProxyService(&config.Config{}, transport)

	body, err := svc.Relay(context.Background(), "yahoo", url.Values{"symbol": {"RELIANCE.NS"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chart":{"result":[]}}`, string(body))

	require.Len(t, transport.requests, 1)
	got := transport.requests[0].URL
	assert.Equal(t, "/v8/finance/chart/RELIANCE.NS", got.Path)
	assert.Equal(t, "1mo", got.Query().Get("range"))
	assert.Equal(t, "1d", got.Query().Get("interval"))
}

func TestRelayYahooQuoteSummaryWhenModulesSet(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{
		"query1.finance.yahoo.com": {status: http.StatusOK, body: `{"quoteSummary":{}}`},
	}}
	svc := newTestProxyService(&config.Config{}, transport)

	_, err := svc.Relay(context.Background(), "yahoo", url.Values{
		"symbol":  {"TCS.NS"},
		"modules": {"financialData,defaultKeyStatistics"},
	})
	require.NoError(t, err)

	require.Len(t, transport.requests, 1)
	got := transport.requests[0].URL
	assert.Equal(t, "/v10/finance/quoteSummary/TCS.NS", got.Path)
	assert.Equal(t, "financialData,defaultKeyStatistics", got.Query().Get("modules"))
}

func TestRelayAlphaVantageAddsKey(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{
		"www.alphavantage.co": {status: http.StatusOK, body: `{"Global Quote":{}}`},
	}}
	cfg := &config.Config{}
	cfg.AlphaVantage.APIKey = "secret-key"
	svc := newTestProxyService(cfg, transport)

	_, err := svc.Relay(context.Background(), "alphavantage", url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {"RELIANCE.BSE"},
	})
	require.NoError(t, err)

	require.Len(t, transport.requests, 1)
	query := transport.requests[0].URL.Query()
	assert.Equal(t, "secret-key", query.Get("apikey"))
	assert.Equal(t, "GLOBAL_QUOTE", query.Get("function"))
	assert.Equal(t, "RELIANCE.BSE", query.Get("symbol"))
}

func TestRelayFMPBuildsEndpointPath(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{
		"financialmodelingprep.com": {status: http.StatusOK, body: `[]`},
	}}
	cfg := &config.Config{}
	cfg.FMP.APIKey = "fmp-key"
	svc := newTestProxyService(cfg, transport)

	_, err := svc.Relay(context.Background(), "fmp", url.Values{
		"endpoint": {"/profile/"},
		"symbol":   {"RELIANCE.NS"},
	})
	require.NoError(t, err)

	require.Len(t, transport.requests, 1)
	got := transport.requests[0].URL
	assert.Equal(t, "/api/v3/profile/RELIANCE.NS", got.Path)
	assert.Equal(t, "fmp-key", got.Query().Get("apikey"))
	assert.Empty(t, got.Query().Get("endpoint"))
}

func TestRelayRapidAPITriesMirrorsInOrder(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{
		"yh-finance.p.rapidapi.com":               {status: http.StatusForbidden, body: `{"message":"not subscribed"}`},
		"apidojo-yahoo-finance-v1.p.rapidapi.com": {status: http.StatusInternalServerError, body: `{}`},
		"yahoo-finance15.p.rapidapi.com":          {status: http.StatusOK, body: `{"symbol":"TCS.NS"}`},
	}}
	cfg := &config.Config{}
	cfg.RapidAPI.APIKey = "rapid-key"
	svc := newTestProxyService(cfg, transport)

	body, err := svc.Relay(context.Background(), "rapidapi", url.Values{"symbol": {"TCS.NS"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"TCS.NS"}`, string(body))

	require.Len(t, transport.requests, 3)
	assert.Equal(t, "yh-finance.p.rapidapi.com", transport.requests[0].URL.Host)
	assert.Equal(t, "apidojo-yahoo-finance-v1.p.rapidapi.com", transport.requests[1].URL.Host)
	assert.Equal(t, "yahoo-finance15.p.rapidapi.com", transport.requests[2].URL.Host)

	for _, req := range transport.requests {
		assert.Equal(t, "rapid-key", req.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, req.URL.Host, req.Header.Get("X-RapidAPI-Host"))
	}
}

func TestRelayRapidAPIAllMirrorsFail(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{}}
	cfg := &config.Config{}
	cfg.RapidAPI.APIKey = "rapid-key"
	svc := newTestProxyService(cfg, transport)

	_, err := svc.Relay(context.Background(), "rapidapi", url.Values{"symbol": {"TCS.NS"}})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "rapidapi", upstream.Provider)
	assert.Contains(t, err.Error(), "all 3 mirrors failed")
}

func TestRelayRejectsNonJSONBody(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{
		"query1.finance.yahoo.com": {status: http.StatusOK, body: "<html>rate limited</html>"},
	}}
	svc := newTestProxyService(&config.Config{}, transport)

	_, err := svc.Relay(context.Background(), "yahoo", url.Values{"symbol": {"TCS.NS"}})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "non-JSON")
}

func TestRelayReportsUpstreamStatus(t *testing.T) {
	transport := &stubTransport{byHost: map[string]stubUpstream{
		"query1.finance.yahoo.com": {status: http.StatusNotFound, body: `{"error":"unknown symbol"}`},
	}}
	svc := newTestProxyService(&config.Config{}, transport)

	_, err := svc.Relay(context.Background(), "yahoo", url.Values{"symbol": {"BOGUS.NS"}})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.Status)
	assert.Equal(t, "yahoo", upstream.Provider)
}
