package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chainfolio/internal/app/service"
	"chainfolio/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPortfolioService struct {
	lastNetworks []string
}

func (s *stubPortfolioService) GetUserPortfolio(_ context.Context, address string, networks []string) (*entity.WalletPortfolio, error) {
	normalized, err := service.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	s.lastNetworks = networks

	eth := entity.EmptyNetworkPortfolio("ethereum")
	eth.Tokens = []entity.TokenBalance{{Symbol: "ETH", Value: decimal.NewFromInt(3000)}}
	eth.ComputeTotals()
	w := &entity.WalletPortfolio{
		Address:         normalized,
		Networks:        []entity.NetworkPortfolio{eth},
		LastRefreshedAt: time.Now().UTC(),
	}
	w.ComputeTotal()
	return w, nil
}

func newTestRouter(svc *stubPortfolioService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := service.NewRefreshController(svc, zap.NewNop())
	handler := NewPortfolioHandler(svc, controller, zap.NewNop())
	router := gin.New()
	RegisterRoutes(router, handler)
	return router
}

const validAddress = "0x1234567890abcdef1234567890abcdef12345678"

func TestGetPortfolioMissingAddress(t *testing.T) {
	router := newTestRouter(&stubPortfolioService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "address")
}

func TestGetPortfolioInvalidAddress(t *testing.T) {
	router := newTestRouter(&stubPortfolioService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio?address=nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPortfolioSuccess(t *testing.T) {
	svc := &stubPortfolioService{}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio?address="+validAddress+"&chains=ethereum,base", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ethereum", "base"}, svc.lastNetworks)
	assert.Contains(t, w.Body.String(), `"address":"`+validAddress+`"`)
	assert.Contains(t, w.Body.String(), `"totalValue":"3000"`)
}

func TestPostPortfolioSuccess(t *testing.T) {
	svc := &stubPortfolioService{}
	router := newTestRouter(svc)

	body := `{"address":"` + validAddress + `","chains":["ethereum","optimism"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/portfolio", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ethereum", "optimism"}, svc.lastNetworks)
}

func TestPostPortfolioMissingAddress(t *testing.T) {
	router := newTestRouter(&stubPortfolioService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/portfolio", strings.NewReader(`{"chains":["ethereum"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshThenCurrent(t *testing.T) {
	router := newTestRouter(&stubPortfolioService{})

	w := httptest.NewRecorder()
	body := `{"address":"` + validAddress + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/portfolio/refresh", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"ready"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/current", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"ready"`)
	assert.Contains(t, w.Body.String(), `"networkValues"`)
}

func TestCurrentBeforeAnyRefresh(t *testing.T) {
	router := newTestRouter(&stubPortfolioService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/current", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"idle"`)
	assert.NotContains(t, w.Body.String(), `"portfolio"`)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubPortfolioService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
