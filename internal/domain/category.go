package domain

import "time"

const MaxCategoryNameLength = 100

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProductIDs  []string  `json:"product_ids,omitempty"` // resolved by the data tier, read-only
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c Category) EntityID() string   { return c.ID }
func (c Category) NaturalKey() string { return c.Name }

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Products     []ProductView `json:"products"`
	ProductCount int           `json:"product_count"`
}
