package restapi

import (
	"errors"
	"net/http"
	"strings"

	"chainfolio/internal/app/port"
	"chainfolio/internal/app/service"
	"chainfolio/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PortfolioHandler handles HTTP requests for portfolio snapshots.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	controller       *service.RefreshController
	logger           *zap.Logger
}

// NewPortfolioHandler creates a new instance of PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, rc *service.RefreshController, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		controller:       rc,
		logger:           logger.Named("PortfolioHandler"),
	}
}

type portfolioRequest struct {
	Address string   `json:"address"`
	Chains  []string `json:"chains"`
}

// GetPortfolioHandler handles GET /portfolio?address=<addr>&chains=<csv>.
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address query parameter is required"})
		return
	}

	var chains []string
	if csv := c.Query("chains"); csv != "" {
		chains = strings.Split(csv, ",")
	}

	h.respondWithPortfolio(c, address, chains)
}

// PostPortfolioHandler handles POST /portfolio with a JSON body, for
// chain lists too large for a query string.
func (h *PortfolioHandler) PostPortfolioHandler(c *gin.Context) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	h.respondWithPortfolio(c, req.Address, req.Chains)
}

func (h *PortfolioHandler) respondWithPortfolio(c *gin.Context, address string, chains []string) {
	portfolio, err := h.portfolioService.GetUserPortfolio(c.Request.Context(), address, chains)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Portfolio aggregation failed", zap.String("address", address), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate portfolio"})
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// RefreshPortfolioHandler handles POST /portfolio/refresh. Concurrent
// calls for the same address share one aggregation cycle.
func (h *PortfolioHandler) RefreshPortfolioHandler(c *gin.Context) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	snapshot, err := h.controller.Refresh(c.Request.Context(), req.Address, req.Chains)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// A failed or cancelled cycle still leaves the last good
		// snapshot available; surface it alongside the state.
		cached, state, _ := h.controller.Current()
		status := http.StatusOK
		if cached == nil {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"state":     state,
			"portfolio": cached,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":     h.controller.State(),
		"portfolio": snapshot,
	})
}

// CurrentPortfolioHandler handles GET /portfolio/current: the cached
// snapshot, the controller state and a per-network value breakdown.
func (h *PortfolioHandler) CurrentPortfolioHandler(c *gin.Context) {
	snapshot, state, lastErr := h.controller.Current()
	resp := gin.H{"state": state}
	if snapshot != nil {
		resp["portfolio"] = snapshot
		resp["networkValues"] = snapshot.NetworkValues()
	}
	if lastErr != nil {
		resp["error"] = lastErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}
