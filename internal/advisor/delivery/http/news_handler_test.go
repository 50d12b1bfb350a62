package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-advisor/internal/entity"
	"stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNewsService struct {
	headlines []entity.MarketNews
	err       error
	gotLimit  int
}

func (s *stubNewsService) Harvest(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *stubNewsService) LatestHeadlines(ctx context.Context, limit int) ([]entity.MarketNews, error) {
	s.gotLimit = limit
	return s.headlines, s.err
}

func newNewsTestApp(svc *stubNewsService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	handler := NewNewsHandler(svc, logger.NewNop())
	handler.RegisterRoutes(e.Group("/api/v1/news"))
	return e
}

func TestGetNews(t *testing.T) {
	svc := &stubNewsService{headlines: []entity.MarketNews{
		{Title: "Sensex climbs", Source: "moneycontrol.com"},
	}}
	e := newNewsTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, svc.gotLimit)

	var headlines []entity.MarketNews
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &headlines))
	require.Len(t, headlines, 1)
	assert.Equal(t, "Sensex climbs", headlines[0].Title)
}

func TestGetNewsCustomLimit(t *testing.T) {
	svc := &stubNewsService{}
	e := newNewsTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news?limit=3", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotLimit)
}

func TestGetNewsInvalidLimit(t *testing.T) {
	for _, limit := range []string{"abc", "0", "-5"} {
		t.Run(limit, func(t *testing.T) {
			e := newNewsTestApp(&stubNewsService{})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/news?limit="+limit, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid limit")
		})
	}
}

func TestGetNewsServiceFailure(t *testing.T) {
	svc := &stubNewsService{err: errors.New("db down")}
	e := newNewsTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to get news")
}
