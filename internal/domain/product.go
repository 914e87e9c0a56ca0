package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p Product) EntityID() string   { return p.ID }
func (p Product) NaturalKey() string { return p.Name }

type ProductRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	CategoryID   string           `json:"category_id"`
	Stock        *int             `json:"stock"`
	MinimumStock *int             `json:"minimum_stock"`
}

// ProductView is a product composed with its category name and stock counters.
// Stock and LowStock stay nil when the product has no inventory record.
type ProductView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Stock        *int            `json:"stock,omitempty"`
	LowStock     *bool           `json:"low_stock,omitempty"`
}
