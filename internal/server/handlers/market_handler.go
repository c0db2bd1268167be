package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/service/market"
)

// MarketHandler serves the external market data endpoints.
type MarketHandler struct {
	svc    *market.Service
	logger *zap.Logger
}

// NewMarketHandler constructs the HTTP handler adapter for market data.
func NewMarketHandler(svc *market.Service, logger *zap.Logger) *MarketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketHandler{svc: svc, logger: logger}
}

// CryptoMarkets returns top cryptocurrencies by market cap.
func (h *MarketHandler) CryptoMarkets(c *gin.Context) {
	perPage, ok := parseIntParam(c, "per_page", 100)
	if !ok {
		return
	}

	markets, err := h.svc.CryptoMarkets(c.Request.Context(), c.Query("currency"), perPage)
	if err != nil {
		h.logger.Error("failed fetching crypto markets", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream market data unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(markets), "data": markets})
}

// CryptoHistory returns the daily price chart for one coin.
func (h *MarketHandler) CryptoHistory(c *gin.Context) {
	days, ok := parseIntParam(c, "days", 30)
	if !ok {
		return
	}

	history, err := h.svc.CryptoHistory(c.Request.Context(), c.Param("id"), c.Query("currency"), days)
	if err != nil {
		h.logger.Error("failed fetching coin history", zap.Error(err), zap.String("coin", c.Param("id")))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream market data unavailable"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// CryptoGlobal returns aggregate crypto market data.
func (h *MarketHandler) CryptoGlobal(c *gin.Context) {
	global, err := h.svc.CryptoGlobal(c.Request.Context())
	if err != nil {
		h.logger.Error("failed fetching global market data", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream market data unavailable"})
		return
	}
	c.JSON(http.StatusOK, global)
}

// Indicators returns World Bank economic indicators.
func (h *MarketHandler) Indicators(c *gin.Context) {
	startYear, ok := parseIntParam(c, "start_year", 0)
	if !ok {
		return
	}
	endYear, ok := parseIntParam(c, "end_year", 0)
	if !ok {
		return
	}

	points, err := h.svc.Indicators(c.Request.Context(),
		splitParam(c.Query("countries")),
		splitParam(c.Query("indicators")),
		startYear, endYear)
	if err != nil {
		h.logger.Error("failed fetching indicators", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream indicator data unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(points), "data": points})
}

// Health returns the weighted economic health assessment per country.
func (h *MarketHandler) Health(c *gin.Context) {
	reports, err := h.svc.EconomicHealth(c.Request.Context(), splitParam(c.Query("countries")))
	if err != nil {
		h.logger.Error("failed computing economic health", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream indicator data unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reports), "data": reports})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
