package generator

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/domain/models"
)

func generate(t *testing.T, params Params) *models.Dataset {
	t.Helper()
	ds, err := New(params, zap.NewNop()).Generate(params)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return ds
}

func TestGenerate_SalesRevenueInvariant(t *testing.T) {
	ds := generate(t, Params{Days: 14, RecordsPerDay: 10, Seed: 7})

	if len(ds.Sales) == 0 {
		t.Fatal("expected sales records")
	}
	for _, s := range ds.Sales {
		want := models.Revenue(s.Quantity, s.UnitPrice)
		if s.TotalRevenue != want {
			t.Fatalf("sale %d: revenue %v != quantity*price %v", s.ID, s.TotalRevenue, want)
		}
		if s.Quantity < 1 || s.Quantity > 10 {
			t.Fatalf("sale %d: quantity %d out of range", s.ID, s.Quantity)
		}
		if !s.Category.Valid() || !s.Region.Valid() {
			t.Fatalf("sale %d: category/region outside the fixed sets", s.ID)
		}
	}
}

func TestGenerate_ProfitMarginInvariant(t *testing.T) {
	ds := generate(t, Params{Days: 30, RecordsPerDay: 20, Seed: 42})

	if len(ds.Profit) == 0 {
		t.Fatal("expected profit records")
	}
	for _, p := range ds.Profit {
		want := models.MarginPercent(p.TotalRevenue, p.TotalCost)
		if p.MarginPercent != want {
			t.Fatalf("profit %q: margin %v, recomputed %v", p.ProductName, p.MarginPercent, want)
		}
	}
}

func TestGenerate_ReferentialConsistency(t *testing.T) {
	ds := generate(t, Params{Days: 30, RecordsPerDay: 20, Seed: 3})

	pairs := make(map[string]struct{})
	for _, s := range ds.Sales {
		pairs[s.Category.String()+"|"+s.Region.String()] = struct{}{}
	}

	for _, p := range ds.Profit {
		if _, ok := pairs[p.Category.String()+"|"+p.Region.String()]; !ok {
			t.Fatalf("profit %q references pair %s/%s absent from sales", p.ProductName, p.Category, p.Region)
		}
	}
	for _, r := range ds.Inventory {
		if _, ok := pairs[r.Category.String()+"|"+r.Region.String()]; !ok {
			t.Fatalf("inventory %q references pair %s/%s absent from sales", r.ProductName, r.Category, r.Region)
		}
	}
}

func TestGenerate_InventoryInvariants(t *testing.T) {
	ds := generate(t, Params{Days: 7, RecordsPerDay: 25, Seed: 11})

	for _, r := range ds.Inventory {
		if r.CurrentStock < 0 {
			t.Fatalf("inventory %q: negative stock %d", r.ProductName, r.CurrentStock)
		}
		if r.MinStock > r.MaxStock {
			t.Fatalf("inventory %q: min %d above max %d", r.ProductName, r.MinStock, r.MaxStock)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	params := Params{Days: 10, RecordsPerDay: 5, Seed: 99}
	first := generate(t, params)
	second := generate(t, params)

	if !reflect.DeepEqual(first.Sales, second.Sales) {
		t.Error("same seed should produce identical sales")
	}
	if !reflect.DeepEqual(first.Profit, second.Profit) {
		t.Error("same seed should produce identical profit table")
	}
	if !reflect.DeepEqual(first.Trends, second.Trends) {
		t.Error("same seed should produce identical trends")
	}
}

func TestGenerate_TrendsSortedAndConsistent(t *testing.T) {
	ds := generate(t, Params{Days: 20, RecordsPerDay: 10, Seed: 5})

	var salesTotal float64
	for _, s := range ds.Sales {
		salesTotal += s.TotalRevenue
	}
	var trendTotal float64
	for i, p := range ds.Trends {
		trendTotal += p.TotalRevenue
		if i > 0 && p.Date.Before(ds.Trends[i-1].Date) {
			t.Fatal("trend points must be sorted by date")
		}
	}

	// Per-day rounding may drift by a cent per bucket.
	if diff := salesTotal - trendTotal; diff > float64(len(ds.Trends))*0.01 || diff < -float64(len(ds.Trends))*0.01 {
		t.Errorf("trend revenue %v drifts too far from sales revenue %v", trendTotal, salesTotal)
	}
}

func TestGenerate_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero days", Params{Days: 0, RecordsPerDay: 10}},
		{"too many days", Params{Days: 2000, RecordsPerDay: 10}},
		{"zero records", Params{Days: 10, RecordsPerDay: 0}},
		{"too many records", Params{Days: 10, RecordsPerDay: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.params, nil).Generate(tt.params); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGenerate_StatsTotals(t *testing.T) {
	ds := generate(t, Params{Days: 15, RecordsPerDay: 8, Seed: 21})

	var revenue float64
	var units int
	for _, s := range ds.Sales {
		revenue += s.TotalRevenue
		units += s.Quantity
	}

	if ds.Stats.TotalSales != units {
		t.Errorf("stats units %d, want %d", ds.Stats.TotalSales, units)
	}
	if got, want := ds.Stats.TotalRevenue, models.RoundMoney(revenue); got != want {
		t.Errorf("stats revenue %v, want %v", got, want)
	}
	if ds.Stats.TopProduct == "" || ds.Stats.TopRegion == "" {
		t.Error("stats must name a top product and region")
	}
	if ds.Stats.InventoryTurnover < 4.0 || ds.Stats.InventoryTurnover > 12.0 {
		t.Errorf("inventory turnover %v outside expected band", ds.Stats.InventoryTurnover)
	}
}
