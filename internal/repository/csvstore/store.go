package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/torgprom/econdash/internal/domain/models"
)

// File names of the generated tables. The data directory is the system of
// record; regeneration rewrites all of them wholesale.
const (
	SalesFile     = "sales.csv"
	InventoryFile = "inventory.csv"
	ProfitFile    = "profit.csv"
	TrendsFile    = "trends.csv"
	StatsFile     = "stats.csv"
)

const dateLayout = "2006-01-02"

var (
	// ErrNoData indicates that the data directory holds no complete dataset yet.
	ErrNoData = errors.New("no dataset found in data directory")
	// ErrFileNotFound indicates that a browsed file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidRange indicates invalid pagination parameters.
	ErrInvalidRange = errors.New("invalid pagination range")
)

// Store persists datasets as flat CSV files and serves file browsing queries.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates the data directory if needed and returns a store bound to it.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// SaveDataset overwrites all five table files. Writes run concurrently; the
// operation is not atomic with respect to concurrent readers of the files
// themselves, matching the demo-grade contract.
func (s *Store) SaveDataset(ctx context.Context, ds *models.Dataset) error {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error { return s.writeSales(ds.Sales) })
	g.Go(func() error { return s.writeInventory(ds.Inventory) })
	g.Go(func() error { return s.writeProfit(ds.Profit) })
	g.Go(func() error { return s.writeTrends(ds.Trends) })
	g.Go(func() error { return s.writeStats(ds.Stats) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}

	s.logger.Info("dataset persisted",
		zap.String("dir", s.dir),
		zap.Int("sales", len(ds.Sales)),
		zap.Int("inventory", len(ds.Inventory)),
		zap.Int("profit", len(ds.Profit)))
	return nil
}

// LoadDataset reads all five table files back into memory. A missing file
// yields ErrNoData so callers can fall back to generation.
func (s *Store) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	for _, name := range []string{SalesFile, InventoryFile, ProfitFile, TrendsFile, StatsFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return nil, ErrNoData
		}
	}

	ds := &models.Dataset{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() (err error) { ds.Sales, err = s.readSales(); return })
	g.Go(func() (err error) { ds.Inventory, err = s.readInventory(); return })
	g.Go(func() (err error) { ds.Profit, err = s.readProfit(); return })
	g.Go(func() (err error) { ds.Trends, err = s.readTrends(); return })
	g.Go(func() (err error) { ds.Stats, err = s.readStats(); return })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	s.logger.Info("dataset loaded",
		zap.String("dir", s.dir),
		zap.Int("sales", len(ds.Sales)))
	return ds, nil
}

func (s *Store) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s rows: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

func (s *Store) readCSV(name string) ([]string, [][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func (s *Store) writeSales(sales []models.SalesRecord) error {
	header := []string{"id", "date", "product_name", "category", "quantity", "unit_price", "total_revenue", "region", "customer_id"}
	rows := make([][]string, 0, len(sales))
	for _, r := range sales {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.Date.Format(dateLayout),
			r.ProductName,
			r.Category.String(),
			strconv.Itoa(r.Quantity),
			money(r.UnitPrice),
			money(r.TotalRevenue),
			r.Region.String(),
			strconv.Itoa(r.CustomerID),
		})
	}
	return s.writeCSV(SalesFile, header, rows)
}

func (s *Store) readSales() ([]models.SalesRecord, error) {
	_, rows, err := s.readCSV(SalesFile)
	if err != nil {
		return nil, err
	}

	sales := make([]models.SalesRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 9 {
			continue
		}
		date, err := time.Parse(dateLayout, row[1])
		if err != nil {
			continue
		}
		id, _ := strconv.Atoi(row[0])
		quantity, _ := strconv.Atoi(row[4])
		unitPrice, _ := strconv.ParseFloat(row[5], 64)
		revenue, _ := strconv.ParseFloat(row[6], 64)
		customerID, _ := strconv.Atoi(row[8])

		sales = append(sales, models.SalesRecord{
			ID:           id,
			Date:         date,
			ProductName:  row[2],
			Category:     models.Category(row[3]),
			Quantity:     quantity,
			UnitPrice:    unitPrice,
			TotalRevenue: revenue,
			Region:       models.Region(row[7]),
			CustomerID:   customerID,
		})
	}
	return sales, nil
}

func (s *Store) writeInventory(inventory []models.InventoryRecord) error {
	header := []string{"id", "product_name", "category", "region", "current_stock", "min_stock", "max_stock", "unit_cost", "last_restocked"}
	rows := make([][]string, 0, len(inventory))
	for _, r := range inventory {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.ProductName,
			r.Category.String(),
			r.Region.String(),
			strconv.Itoa(r.CurrentStock),
			strconv.Itoa(r.MinStock),
			strconv.Itoa(r.MaxStock),
			money(r.UnitCost),
			r.LastRestocked.Format(dateLayout),
		})
	}
	return s.writeCSV(InventoryFile, header, rows)
}

func (s *Store) readInventory() ([]models.InventoryRecord, error) {
	_, rows, err := s.readCSV(InventoryFile)
	if err != nil {
		return nil, err
	}

	inventory := make([]models.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 9 {
			continue
		}
		restocked, err := time.Parse(dateLayout, row[8])
		if err != nil {
			continue
		}
		id, _ := strconv.Atoi(row[0])
		current, _ := strconv.Atoi(row[4])
		min, _ := strconv.Atoi(row[5])
		max, _ := strconv.Atoi(row[6])
		cost, _ := strconv.ParseFloat(row[7], 64)

		inventory = append(inventory, models.InventoryRecord{
			ID:            id,
			ProductName:   row[1],
			Category:      models.Category(row[2]),
			Region:        models.Region(row[3]),
			CurrentStock:  current,
			MinStock:      min,
			MaxStock:      max,
			UnitCost:      cost,
			LastRestocked: restocked,
		})
	}
	return inventory, nil
}

func (s *Store) writeProfit(profit []models.ProfitRecord) error {
	header := []string{"id", "product_name", "category", "region", "date", "unit_cost", "unit_price", "total_cost", "total_revenue", "total_profit", "margin_percent"}
	rows := make([][]string, 0, len(profit))
	for _, r := range profit {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.ProductName,
			r.Category.String(),
			r.Region.String(),
			r.Date.Format(dateLayout),
			money(r.UnitCost),
			money(r.UnitPrice),
			money(r.TotalCost),
			money(r.TotalRevenue),
			money(r.TotalProfit),
			money(r.MarginPercent),
		})
	}
	return s.writeCSV(ProfitFile, header, rows)
}

func (s *Store) readProfit() ([]models.ProfitRecord, error) {
	_, rows, err := s.readCSV(ProfitFile)
	if err != nil {
		return nil, err
	}

	profit := make([]models.ProfitRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 11 {
			continue
		}
		date, err := time.Parse(dateLayout, row[4])
		if err != nil {
			continue
		}
		id, _ := strconv.Atoi(row[0])
		unitCost, _ := strconv.ParseFloat(row[5], 64)
		unitPrice, _ := strconv.ParseFloat(row[6], 64)
		totalCost, _ := strconv.ParseFloat(row[7], 64)
		totalRevenue, _ := strconv.ParseFloat(row[8], 64)
		totalProfit, _ := strconv.ParseFloat(row[9], 64)

		profit = append(profit, models.ProfitRecord{
			ID:           id,
			ProductName:  row[1],
			Category:     models.Category(row[2]),
			Region:       models.Region(row[3]),
			Date:         date,
			UnitCost:     unitCost,
			UnitPrice:    unitPrice,
			TotalCost:    totalCost,
			TotalRevenue: totalRevenue,
			TotalProfit:  totalProfit,
			// Margin is derived, never trusted from disk.
			MarginPercent: models.MarginPercent(totalRevenue, totalCost),
		})
	}
	return profit, nil
}

func (s *Store) writeTrends(trends []models.TrendPoint) error {
	header := []string{"date", "total_revenue", "total_profit", "total_sales", "avg_order_value"}
	rows := make([][]string, 0, len(trends))
	for _, t := range trends {
		rows = append(rows, []string{
			t.Date.Format(dateLayout),
			money(t.TotalRevenue),
			money(t.TotalProfit),
			strconv.Itoa(t.TotalSales),
			money(t.AvgOrderValue),
		})
	}
	return s.writeCSV(TrendsFile, header, rows)
}

func (s *Store) readTrends() ([]models.TrendPoint, error) {
	_, rows, err := s.readCSV(TrendsFile)
	if err != nil {
		return nil, err
	}

	trends := make([]models.TrendPoint, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		date, err := time.Parse(dateLayout, row[0])
		if err != nil {
			continue
		}
		revenue, _ := strconv.ParseFloat(row[1], 64)
		profit, _ := strconv.ParseFloat(row[2], 64)
		sales, _ := strconv.Atoi(row[3])
		avgOrder, _ := strconv.ParseFloat(row[4], 64)

		trends = append(trends, models.TrendPoint{
			Date:          date,
			TotalRevenue:  revenue,
			TotalProfit:   profit,
			TotalSales:    sales,
			AvgOrderValue: avgOrder,
		})
	}
	return trends, nil
}

func (s *Store) writeStats(stats models.Stats) error {
	header := []string{"total_revenue", "total_profit", "total_sales", "avg_profit_margin", "top_product", "top_region", "inventory_turnover"}
	row := []string{
		money(stats.TotalRevenue),
		money(stats.TotalProfit),
		strconv.Itoa(stats.TotalSales),
		money(stats.AvgProfitMargin),
		stats.TopProduct,
		stats.TopRegion,
		money(stats.InventoryTurnover),
	}
	return s.writeCSV(StatsFile, header, [][]string{row})
}

func (s *Store) readStats() (models.Stats, error) {
	_, rows, err := s.readCSV(StatsFile)
	if err != nil {
		return models.Stats{}, err
	}
	if len(rows) == 0 || len(rows[0]) < 7 {
		return models.Stats{}, nil
	}

	row := rows[0]
	revenue, _ := strconv.ParseFloat(row[0], 64)
	profit, _ := strconv.ParseFloat(row[1], 64)
	sales, _ := strconv.Atoi(row[2])
	margin, _ := strconv.ParseFloat(row[3], 64)
	turnover, _ := strconv.ParseFloat(row[6], 64)

	return models.Stats{
		TotalRevenue:      revenue,
		TotalProfit:       profit,
		TotalSales:        sales,
		AvgProfitMargin:   margin,
		TopProduct:        row[4],
		TopRegion:         row[5],
		InventoryTurnover: turnover,
	}, nil
}
