package models

// Category enumerates the product categories present in the generated dataset.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryFood        Category = "food"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
)

// AllCategories returns the fixed category enumeration.
func AllCategories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryClothing,
		CategoryFood,
		CategoryBooks,
		CategoryHome,
		CategorySports,
	}
}

// Valid reports whether the category belongs to the fixed enumeration.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// Region enumerates the sales regions present in the generated dataset.
type Region string

const (
	RegionKyiv    Region = "kyiv"
	RegionKharkiv Region = "kharkiv"
	RegionLviv    Region = "lviv"
	RegionOdesa   Region = "odesa"
	RegionDnipro  Region = "dnipro"
)

// AllRegions returns the fixed region enumeration.
func AllRegions() []Region {
	return []Region{RegionKyiv, RegionKharkiv, RegionLviv, RegionOdesa, RegionDnipro}
}

// Valid reports whether the region belongs to the fixed enumeration.
func (r Region) Valid() bool {
	for _, known := range AllRegions() {
		if r == known {
			return true
		}
	}
	return false
}

func (r Region) String() string { return string(r) }
