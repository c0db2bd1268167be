package generator

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/domain/models"
)

// Params controls the shape of a generated dataset. A zero Seed selects a
// time-based seed, so two runs differ; any other value is fully deterministic.
type Params struct {
	Days          int   `json:"days" validate:"min=1,max=1095"`
	RecordsPerDay int   `json:"records_per_day" validate:"min=1,max=500"`
	Seed          int64 `json:"seed" validate:"min=0"`
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return fmt.Errorf("invalid generator params: %w", err)
	}
	return nil
}

// Generator produces internally-consistent synthetic business data.
type Generator struct {
	rng    *rand.Rand
	now    time.Time
	logger *zap.Logger
}

// New builds a generator for the given parameters.
func New(params Params, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now().UTC().Truncate(24 * time.Hour),
		logger: logger,
	}
}

// Generate builds the full dataset. Profit, trend and stats tables are derived
// from the sales table, so every category/region pair they reference is
// guaranteed to appear in sales.
func (g *Generator) Generate(params Params) (*models.Dataset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	sales := g.generateSales(params.Days, params.RecordsPerDay)
	inventory := g.generateInventory(sales)
	profit := g.generateProfit(sales)
	trends := g.generateTrends(sales)
	stats := g.generateStats(sales, profit)

	g.logger.Info("dataset generated",
		zap.Int("sales", len(sales)),
		zap.Int("inventory", len(inventory)),
		zap.Int("profit", len(profit)),
		zap.Int("trend_points", len(trends)),
		zap.Duration("duration", time.Since(start)))

	return &models.Dataset{
		Sales:     sales,
		Inventory: inventory,
		Profit:    profit,
		Trends:    trends,
		Stats:     stats,
	}, nil
}

func (g *Generator) generateSales(days, recordsPerDay int) []models.SalesRecord {
	categories := models.AllCategories()
	regions := models.AllRegions()

	var sales []models.SalesRecord
	baseDate := g.now.AddDate(0, 0, -days)
	recordID := 1

	for day := 0; day < days; day++ {
		date := baseDate.AddDate(0, 0, day)

		// More sales on weekends and in holiday months.
		multiplier := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			multiplier *= 1.5
		}
		if m := date.Month(); m == time.December || m == time.January || m == time.June {
			multiplier *= 2.0
		}
		dailyRecords := int(float64(recordsPerDay) * multiplier)

		for i := 0; i < dailyRecords; i++ {
			category := categories[g.rng.Intn(len(categories))]
			names := products[category]
			band := priceBands[category]

			quantity := g.rng.Intn(10) + 1
			unitPrice := models.RoundMoney(band.MinPrice + g.rng.Float64()*(band.MaxPrice-band.MinPrice))

			sales = append(sales, models.SalesRecord{
				ID:           recordID,
				Date:         date,
				ProductName:  names[g.rng.Intn(len(names))],
				Category:     category,
				Quantity:     quantity,
				UnitPrice:    unitPrice,
				TotalRevenue: models.Revenue(quantity, unitPrice),
				Region:       regions[g.rng.Intn(len(regions))],
				CustomerID:   g.rng.Intn(9000) + 1000,
			})
			recordID++
		}
	}

	return sales
}

// regionsSeen maps each category to the sorted set of regions it was actually
// sold in, keeping derived tables referentially consistent with sales.
func regionsSeen(sales []models.SalesRecord) map[models.Category][]models.Region {
	seen := make(map[models.Category]map[models.Region]struct{})
	for _, s := range sales {
		if seen[s.Category] == nil {
			seen[s.Category] = make(map[models.Region]struct{})
		}
		seen[s.Category][s.Region] = struct{}{}
	}

	out := make(map[models.Category][]models.Region, len(seen))
	for category, set := range seen {
		regions := make([]models.Region, 0, len(set))
		for r := range set {
			regions = append(regions, r)
		}
		sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
		out[category] = regions
	}
	return out
}

func (g *Generator) generateInventory(sales []models.SalesRecord) []models.InventoryRecord {
	soldRegions := regionsSeen(sales)

	var inventory []models.InventoryRecord
	for _, category := range models.AllCategories() {
		regions := soldRegions[category]
		if len(regions) == 0 {
			continue
		}
		band := priceBands[category]

		for _, name := range products[category] {
			currentStock := g.rng.Intn(491) + 10
			minStock := g.rng.Intn(46) + 5

			inventory = append(inventory, models.InventoryRecord{
				ID:            len(inventory) + 1,
				ProductName:   name,
				Category:      category,
				Region:        regions[g.rng.Intn(len(regions))],
				CurrentStock:  currentStock,
				MinStock:      minStock,
				MaxStock:      currentStock + g.rng.Intn(901) + 100,
				UnitCost:      models.RoundMoney(band.MinPrice*band.CostRatio + g.rng.Float64()*(band.MaxPrice-band.MinPrice)*band.CostRatio),
				LastRestocked: g.now.AddDate(0, 0, -(g.rng.Intn(30) + 1)),
			})
		}
	}

	return inventory
}

type productAggregate struct {
	category models.Category
	region   models.Region
	lastDate time.Time
	revenue  float64
	quantity int
}

func (g *Generator) generateProfit(sales []models.SalesRecord) []models.ProfitRecord {
	byProduct := make(map[string]*productAggregate)
	for _, s := range sales {
		agg := byProduct[s.ProductName]
		if agg == nil {
			agg = &productAggregate{category: s.Category, region: s.Region, lastDate: s.Date}
			byProduct[s.ProductName] = agg
		}
		agg.revenue += s.TotalRevenue
		agg.quantity += s.Quantity
		if s.Date.After(agg.lastDate) {
			agg.lastDate = s.Date
			agg.region = s.Region
		}
	}

	// Deterministic order so the same seed always yields the same table.
	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	sort.Strings(names)

	profit := make([]models.ProfitRecord, 0, len(names))
	for _, name := range names {
		agg := byProduct[name]
		band := priceBands[agg.category]

		avgPrice := agg.revenue / float64(agg.quantity)
		unitCost := models.RoundMoney(avgPrice * band.CostRatio * (0.8 + g.rng.Float64()*0.4))
		totalRevenue := models.RoundMoney(agg.revenue)
		totalCost := models.RoundMoney(unitCost * float64(agg.quantity))

		profit = append(profit, models.ProfitRecord{
			ID:            len(profit) + 1,
			ProductName:   name,
			Category:      agg.category,
			Region:        agg.region,
			Date:          agg.lastDate,
			UnitCost:      unitCost,
			UnitPrice:     models.RoundMoney(avgPrice),
			TotalCost:     totalCost,
			TotalRevenue:  totalRevenue,
			TotalProfit:   models.RoundMoney(totalRevenue - totalCost),
			MarginPercent: models.MarginPercent(totalRevenue, totalCost),
		})
	}

	return profit
}

func (g *Generator) generateTrends(sales []models.SalesRecord) []models.TrendPoint {
	type daily struct {
		revenue float64
		units   int
		orders  int
	}

	byDay := make(map[time.Time]*daily)
	for _, s := range sales {
		day := s.Date
		if byDay[day] == nil {
			byDay[day] = &daily{}
		}
		byDay[day].revenue += s.TotalRevenue
		byDay[day].units += s.Quantity
		byDay[day].orders++
	}

	trends := make([]models.TrendPoint, 0, len(byDay))
	for day, agg := range byDay {
		avgOrder := 0.0
		if agg.orders > 0 {
			avgOrder = agg.revenue / float64(agg.orders)
		}
		trends = append(trends, models.TrendPoint{
			Date:         day,
			TotalRevenue: models.RoundMoney(agg.revenue),
			// Approximate profit at the trend level, 30% average margin.
			TotalProfit:   models.RoundMoney(agg.revenue * 0.3),
			TotalSales:    agg.units,
			AvgOrderValue: models.RoundMoney(avgOrder),
		})
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].Date.Before(trends[j].Date) })
	return trends
}

func (g *Generator) generateStats(sales []models.SalesRecord, profit []models.ProfitRecord) models.Stats {
	var stats models.Stats

	productRevenue := make(map[string]float64)
	regionUnits := make(map[models.Region]int)

	for _, s := range sales {
		stats.TotalRevenue += s.TotalRevenue
		stats.TotalSales += s.Quantity
		productRevenue[s.ProductName] += s.TotalRevenue
		regionUnits[s.Region] += s.Quantity
	}
	for _, p := range profit {
		stats.TotalProfit += p.TotalProfit
	}

	for name, revenue := range productRevenue {
		if stats.TopProduct == "" || revenue > productRevenue[stats.TopProduct] ||
			(revenue == productRevenue[stats.TopProduct] && name < stats.TopProduct) {
			stats.TopProduct = name
		}
	}
	var topRegion models.Region
	for region, units := range regionUnits {
		if topRegion == "" || units > regionUnits[topRegion] ||
			(units == regionUnits[topRegion] && region < topRegion) {
			topRegion = region
		}
	}
	stats.TopRegion = topRegion.String()

	if stats.TotalRevenue > 0 {
		stats.AvgProfitMargin = models.MarginPercent(stats.TotalRevenue, stats.TotalRevenue-stats.TotalProfit)
	}
	stats.TotalRevenue = models.RoundMoney(stats.TotalRevenue)
	stats.TotalProfit = models.RoundMoney(stats.TotalProfit)
	// Typical turnover values across retail verticals.
	stats.InventoryTurnover = models.RoundMoney(4.0 + g.rng.Float64()*8.0)

	return stats
}
