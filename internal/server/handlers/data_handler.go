package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/generator"
	"github.com/torgprom/econdash/internal/service/analytics"
	"github.com/torgprom/econdash/internal/service/dataset"
)

const dateLayout = "2006-01-02"

// DataHandler serves the sales, inventory, profit, trend and KPI endpoints.
type DataHandler struct {
	analytics *analytics.Service
	lifecycle *dataset.Service
	logger    *zap.Logger
}

// NewDataHandler constructs the HTTP handler adapter for dataset queries.
func NewDataHandler(analyticsSvc *analytics.Service, lifecycle *dataset.Service, logger *zap.Logger) *DataHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataHandler{analytics: analyticsSvc, lifecycle: lifecycle, logger: logger}
}

func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be formatted as YYYY-MM-DD"})
		return nil, false
	}
	return &parsed, true
}

func parseIntParam(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return parsed, true
}

// Sales returns sales records filtered by date range, category and region.
func (h *DataHandler) Sales(c *gin.Context) {
	start, ok := parseDateParam(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end_date")
	if !ok {
		return
	}
	limit, ok := parseIntParam(c, "limit", 0)
	if !ok {
		return
	}
	if limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must not be negative"})
		return
	}

	records := h.analytics.Sales(analytics.SalesFilter{
		Start:    start,
		End:      end,
		Category: c.Query("category"),
		Region:   c.Query("region"),
		Limit:    limit,
	})
	c.JSON(http.StatusOK, gin.H{"count": len(records), "data": records})
}

// Inventory returns stock positions, optionally restricted to low-stock items.
func (h *DataHandler) Inventory(c *gin.Context) {
	lowStock := false
	if raw := c.Query("low_stock"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "low_stock must be a boolean"})
			return
		}
		lowStock = parsed
	}

	records := h.analytics.Inventory(analytics.InventoryFilter{
		Category: c.Query("category"),
		Region:   c.Query("region"),
		LowStock: lowStock,
	})
	c.JSON(http.StatusOK, gin.H{"count": len(records), "data": records})
}

// Profit returns profitability records above an optional margin threshold.
func (h *DataHandler) Profit(c *gin.Context) {
	var minMargin *float64
	if raw := c.Query("min_margin"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_margin must be a number"})
			return
		}
		minMargin = &parsed
	}

	records := h.analytics.Profit(analytics.ProfitFilter{
		Category:  c.Query("category"),
		Region:    c.Query("region"),
		MinMargin: minMargin,
	})
	c.JSON(http.StatusOK, gin.H{"count": len(records), "data": records})
}

// Trends returns the revenue time series aggregated by period.
func (h *DataHandler) Trends(c *gin.Context) {
	start, ok := parseDateParam(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end_date")
	if !ok {
		return
	}

	points, err := h.analytics.Trends(analytics.TrendFilter{
		Start:  start,
		End:    end,
		Period: c.Query("period"),
	})
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed aggregating trends", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate trends"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(points), "data": points})
}

// Stats returns the KPI summary row.
func (h *DataHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.Stats())
}

// Categories lists the distinct categories present in the dataset.
func (h *DataHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.analytics.Categories()})
}

// Regions lists the distinct regions present in the dataset.
func (h *DataHandler) Regions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": h.analytics.Regions()})
}

// Regenerate discards and rebuilds all synthetic data tables.
func (h *DataHandler) Regenerate(c *gin.Context) {
	var params generator.Params
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			h.logger.Warn("invalid regenerate payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	if err := h.lifecycle.Regenerate(c.Request.Context(), params); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("regeneration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to regenerate dataset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "dataset regenerated"})
}
