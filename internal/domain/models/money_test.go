package models

import "testing"

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already rounded", 10.25, 10.25},
		{"rounds up", 10.255, 10.26},
		{"rounds down", 10.254, 10.25},
		{"negative", -3.145, -3.15},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundMoney(tt.in); got != tt.want {
				t.Errorf("RoundMoney(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRevenue(t *testing.T) {
	if got := Revenue(3, 19.99); got != 59.97 {
		t.Errorf("Revenue(3, 19.99) = %v, want 59.97", got)
	}
	if got := Revenue(0, 100); got != 0 {
		t.Errorf("Revenue(0, 100) = %v, want 0", got)
	}
}

func TestMarginPercent(t *testing.T) {
	tests := []struct {
		name    string
		revenue float64
		cost    float64
		want    float64
	}{
		{"half margin", 200, 100, 50},
		{"third margin", 300, 200, 33.33},
		{"zero revenue", 0, 100, 0},
		{"negative margin", 100, 150, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarginPercent(tt.revenue, tt.cost); got != tt.want {
				t.Errorf("MarginPercent(%v, %v) = %v, want %v", tt.revenue, tt.cost, got, tt.want)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	if !CategoryElectronics.Valid() {
		t.Error("electronics should be a valid category")
	}
	if Category("furniture").Valid() {
		t.Error("furniture should not be a valid category")
	}
}

func TestRegionValid(t *testing.T) {
	if !RegionKyiv.Valid() {
		t.Error("kyiv should be a valid region")
	}
	if Region("mars").Valid() {
		t.Error("mars should not be a valid region")
	}
}

func TestInventoryLowStock(t *testing.T) {
	r := InventoryRecord{CurrentStock: 5, MinStock: 10}
	if !r.LowStock() {
		t.Error("stock below threshold should report low")
	}
	r.CurrentStock = 11
	if r.LowStock() {
		t.Error("stock above threshold should not report low")
	}
}
