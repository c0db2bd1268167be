package analytics

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/domain/models"
)

// Aggregation periods accepted by Trends.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// ErrInvalidPeriod indicates an unknown aggregation period.
var ErrInvalidPeriod = errors.New("period must be one of: daily, weekly, monthly")

const defaultSalesLimit = 1000

// Service answers filtered and aggregated queries over the current dataset.
// The dataset is swapped atomically on regeneration, so readers never observe
// a partially built dataset.
type Service struct {
	mu     sync.RWMutex
	ds     *models.Dataset
	logger *zap.Logger
}

// NewService wires an analytics service around the initial dataset.
func NewService(ds *models.Dataset, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ds == nil {
		ds = &models.Dataset{}
	}
	return &Service{ds: ds, logger: logger}
}

// Replace swaps in a freshly generated dataset, discarding all prior records.
func (s *Service) Replace(ds *models.Dataset) {
	if ds == nil {
		ds = &models.Dataset{}
	}
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
	s.logger.Info("dataset replaced",
		zap.Int("sales", len(ds.Sales)),
		zap.Int("inventory", len(ds.Inventory)),
		zap.Int("profit", len(ds.Profit)))
}

// SalesFilter narrows the sales table. Nil/empty fields are ignored.
type SalesFilter struct {
	Start    *time.Time
	End      *time.Time
	Category string
	Region   string
	Limit    int
}

// Sales returns sales records matching the filter, capped at the limit
// (default 1000).
func (s *Service) Sales(f SalesFilter) []models.SalesRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := f.Limit
	if limit <= 0 {
		limit = defaultSalesLimit
	}

	result := make([]models.SalesRecord, 0)
	for _, r := range s.ds.Sales {
		if f.Start != nil && r.Date.Before(*f.Start) {
			continue
		}
		if f.End != nil && r.Date.After(*f.End) {
			continue
		}
		if f.Category != "" && r.Category.String() != f.Category {
			continue
		}
		if f.Region != "" && r.Region.String() != f.Region {
			continue
		}
		result = append(result, r)
		if len(result) >= limit {
			break
		}
	}
	return result
}

// InventoryFilter narrows the inventory table.
type InventoryFilter struct {
	Category string
	Region   string
	LowStock bool
}

// Inventory returns inventory records matching the filter.
func (s *Service) Inventory(f InventoryFilter) []models.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.InventoryRecord, 0)
	for _, r := range s.ds.Inventory {
		if f.Category != "" && r.Category.String() != f.Category {
			continue
		}
		if f.Region != "" && r.Region.String() != f.Region {
			continue
		}
		if f.LowStock && !r.LowStock() {
			continue
		}
		result = append(result, r)
	}
	return result
}

// ProfitFilter narrows the profit table. MinMargin is a percentage threshold.
type ProfitFilter struct {
	Category  string
	Region    string
	MinMargin *float64
}

// Profit returns profitability records matching the filter.
func (s *Service) Profit(f ProfitFilter) []models.ProfitRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.ProfitRecord, 0)
	for _, r := range s.ds.Profit {
		if f.Category != "" && r.Category.String() != f.Category {
			continue
		}
		if f.Region != "" && r.Region.String() != f.Region {
			continue
		}
		if f.MinMargin != nil && r.MarginPercent < *f.MinMargin {
			continue
		}
		result = append(result, r)
	}
	return result
}

// TrendFilter narrows and buckets the trend series.
type TrendFilter struct {
	Start  *time.Time
	End    *time.Time
	Period string
}

// Trends returns the revenue/profit time series aggregated to the requested
// period. Weekly buckets start on Monday, monthly buckets on the first of the
// month; revenue, profit and unit counts are summed, average order value is
// averaged across the bucket's daily points.
func (s *Service) Trends(f TrendFilter) ([]models.TrendPoint, error) {
	period := f.Period
	if period == "" {
		period = PeriodDaily
	}
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return nil, ErrInvalidPeriod
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		revenue  float64
		profit   float64
		sales    int
		orderSum float64
		points   int
	}

	buckets := make(map[time.Time]*bucket)
	for _, p := range s.ds.Trends {
		if f.Start != nil && p.Date.Before(*f.Start) {
			continue
		}
		if f.End != nil && p.Date.After(*f.End) {
			continue
		}

		key := bucketStart(p.Date, period)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.revenue += p.TotalRevenue
		b.profit += p.TotalProfit
		b.sales += p.TotalSales
		b.orderSum += p.AvgOrderValue
		b.points++
	}

	result := make([]models.TrendPoint, 0, len(buckets))
	for key, b := range buckets {
		avgOrder := 0.0
		if b.points > 0 {
			avgOrder = b.orderSum / float64(b.points)
		}
		result = append(result, models.TrendPoint{
			Date:          key,
			TotalRevenue:  models.RoundMoney(b.revenue),
			TotalProfit:   models.RoundMoney(b.profit),
			TotalSales:    b.sales,
			AvgOrderValue: models.RoundMoney(avgOrder),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func bucketStart(date time.Time, period string) time.Time {
	switch period {
	case PeriodWeekly:
		offset := (int(date.Weekday()) + 6) % 7 // Monday start
		return date.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	default:
		return date
	}
}

// Stats returns the KPI summary. An empty dataset yields zero-valued KPIs.
func (s *Service) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds.Stats
}

// Categories returns the distinct categories present in sales, sorted.
func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.ds.Sales, func(r models.SalesRecord) string { return r.Category.String() })
}

// Regions returns the distinct regions present in sales, sorted.
func (s *Service) Regions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.ds.Sales, func(r models.SalesRecord) string { return r.Region.String() })
}

func distinct(sales []models.SalesRecord, key func(models.SalesRecord) string) []string {
	seen := make(map[string]struct{})
	for _, r := range sales {
		seen[key(r)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
