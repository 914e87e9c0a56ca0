package domain

import "time"

// DefaultMinimumQuantity applies when a request leaves the threshold unset.
const DefaultMinimumQuantity = 10

type Inventory struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Quantity        int       `json:"quantity"`
	MinimumQuantity int       `json:"minimum_quantity"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Product is a snapshot attached by the data tier on reads.
	Product *Product `json:"product,omitempty"`
}

func (i Inventory) EntityID() string   { return i.ID }
func (i Inventory) NaturalKey() string { return i.ProductID }

func (i Inventory) LowStock() bool   { return i.Quantity <= i.MinimumQuantity }
func (i Inventory) OutOfStock() bool { return i.Quantity == 0 }

type InventoryRequest struct {
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	MinimumQuantity *int   `json:"minimum_quantity"`
}

type InventoryView struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	Quantity        int       `json:"quantity"`
	MinimumQuantity int       `json:"minimum_quantity"`
	UpdatedAt       time.Time `json:"updated_at"`
	LowStock        bool      `json:"low_stock"`
	OutOfStock      bool      `json:"out_of_stock"`
}
