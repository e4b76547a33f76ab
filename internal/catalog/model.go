package catalog

import "gorm.io/gorm"

// Prices are integer minor units (IDR has no fraction).
type Product struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
	Stock       int    `json:"stock"`
}

type Topping struct {
	gorm.Model
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}
