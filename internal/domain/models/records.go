package models

import "time"

// SalesRecord captures a single sale transaction.
// TotalRevenue is always Quantity * UnitPrice rounded to two decimals.
type SalesRecord struct {
	ID           int       `json:"id"`
	Date         time.Time `json:"date"`
	ProductName  string    `json:"product_name"`
	Category     Category  `json:"category"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	TotalRevenue float64   `json:"total_revenue"`
	Region       Region    `json:"region"`
	CustomerID   int       `json:"customer_id"`
}

// InventoryRecord captures the current stock position of a product.
type InventoryRecord struct {
	ID            int       `json:"id"`
	ProductName   string    `json:"product_name"`
	Category      Category  `json:"category"`
	Region        Region    `json:"region"`
	CurrentStock  int       `json:"current_stock"`
	MinStock      int       `json:"min_stock"`
	MaxStock      int       `json:"max_stock"`
	UnitCost      float64   `json:"unit_cost"`
	LastRestocked time.Time `json:"last_restocked"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (r InventoryRecord) LowStock() bool {
	return r.CurrentStock <= r.MinStock
}

// ProfitRecord captures per-product profitability derived from sales.
// MarginPercent is recomputed from cost and revenue, never stored independently.
type ProfitRecord struct {
	ID            int       `json:"id"`
	ProductName   string    `json:"product_name"`
	Category      Category  `json:"category"`
	Region        Region    `json:"region"`
	Date          time.Time `json:"date"`
	UnitCost      float64   `json:"unit_cost"`
	UnitPrice     float64   `json:"unit_price"`
	TotalCost     float64   `json:"total_cost"`
	TotalRevenue  float64   `json:"total_revenue"`
	TotalProfit   float64   `json:"total_profit"`
	MarginPercent float64   `json:"margin_percent"`
}

// TrendPoint is one bucket of the revenue/profit time series.
type TrendPoint struct {
	Date          time.Time `json:"date"`
	TotalRevenue  float64   `json:"total_revenue"`
	TotalProfit   float64   `json:"total_profit"`
	TotalSales    int       `json:"total_sales"`
	AvgOrderValue float64   `json:"avg_order_value"`
}

// Stats holds the dashboard KPI summary computed over the whole dataset.
type Stats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalProfit       float64 `json:"total_profit"`
	TotalSales        int     `json:"total_sales"`
	AvgProfitMargin   float64 `json:"avg_profit_margin"`
	TopProduct        string  `json:"top_product"`
	TopRegion         string  `json:"top_region"`
	InventoryTurnover float64 `json:"inventory_turnover"`
}

// Dataset bundles all generated tables. It is replaced wholesale on
// regeneration, individual records are never mutated.
type Dataset struct {
	Sales     []SalesRecord     `json:"sales"`
	Inventory []InventoryRecord `json:"inventory"`
	Profit    []ProfitRecord    `json:"profit"`
	Trends    []TrendPoint      `json:"trends"`
	Stats     Stats             `json:"stats"`
}
