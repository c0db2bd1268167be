package generator

import "github.com/torgprom/econdash/internal/domain/models"

// priceBand bounds unit prices for a category and fixes the share of the
// price that goes to cost.
type priceBand struct {
	MinPrice  float64
	MaxPrice  float64
	CostRatio float64
}

var priceBands = map[models.Category]priceBand{
	models.CategoryElectronics: {MinPrice: 500, MaxPrice: 5000, CostRatio: 0.6},
	models.CategoryClothing:    {MinPrice: 50, MaxPrice: 500, CostRatio: 0.4},
	models.CategoryFood:        {MinPrice: 10, MaxPrice: 100, CostRatio: 0.7},
	models.CategoryBooks:       {MinPrice: 20, MaxPrice: 200, CostRatio: 0.5},
	models.CategoryHome:        {MinPrice: 100, MaxPrice: 2000, CostRatio: 0.5},
	models.CategorySports:      {MinPrice: 30, MaxPrice: 800, CostRatio: 0.6},
}

var products = map[models.Category][]string{
	models.CategoryElectronics: {
		"Samsung Galaxy Smartphone", "Dell Inspiron Laptop", "iPad Tablet",
		"AirPods Headphones", "Canon EOS Camera", "LG OLED TV",
	},
	models.CategoryClothing: {
		"Levis Jeans", "Nike T-Shirt", "The North Face Jacket",
		"Adidas Shoes", "Zara Dress", "H&M Sweater",
	},
	models.CategoryFood: {
		"Homemade Bread", "Milk 3.2%", "Gouda Cheese", "Greek Yogurt",
		"Chicken Meat", "Seasonal Vegetables",
	},
	models.CategoryBooks: {
		"Novel 1984", "Mathematics Textbook", "Agatha Christie Mystery",
		"Encyclopedia", "Recipe Book", "Fashion Magazine",
	},
	models.CategoryHome: {
		"Modular Sofa", "Dining Table", "Desk Lamp",
		"Persian Carpet", "Decorative Vase", "Flower Pot",
	},
	models.CategorySports: {
		"Dumbbells 10kg", "Mountain Bike", "Running Shoes",
		"Football", "Tennis Racket", "Gym Membership",
	},
}
