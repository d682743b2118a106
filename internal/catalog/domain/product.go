package domain

import "math"

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // whole rupiah, the currency has no subunit
	Image       string `json:"image"`
	Category    string `json:"category"`
	CategoryID  string `json:"category_id"`
	Stock       int    `json:"stock"`
	Unit        string `json:"unit"`
	Discount    *int64 `json:"discount,omitempty"` // percent 0-100, nil when not discounted
	IsPromo     bool   `json:"is_promo"`
}

// DiscountedPrice returns the unit price after applying the product's
// discount percentage. Rounding is half away from zero (math.Round),
// applied once here so every caller prices a line the same way.
func (p *Product) DiscountedPrice() int64 {
	if p.Discount == nil {
		return p.Price
	}
	return int64(math.Round(float64(p.Price) * (1 - float64(*p.Discount)/100)))
}

type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Handle string `json:"handle"`
	Color  string `json:"color"`
}
