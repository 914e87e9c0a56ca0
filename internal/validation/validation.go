// Package validation holds the business rules checked on incoming requests
// before the data service is contacted.
package validation

import (
	"strings"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

func ValidateProduct(req domain.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return domain.Invalid("product name is required")
	}
	if req.Price == nil {
		return domain.Invalid("price is required")
	}
	if !req.Price.IsPositive() {
		return domain.Invalid("price must be greater than zero")
	}
	if strings.TrimSpace(req.CategoryID) == "" {
		return domain.Invalid("category is required")
	}
	if req.Stock != nil && *req.Stock < 0 {
		return domain.Invalid("stock cannot be negative")
	}
	if req.MinimumStock != nil && *req.MinimumStock < 0 {
		return domain.Invalid("minimum stock cannot be negative")
	}
	return nil
}

func ValidateCategory(req domain.CategoryRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Invalid("category name is required")
	}
	if len([]rune(req.Name)) > domain.MaxCategoryNameLength {
		return domain.Invalid("category name cannot exceed %d characters", domain.MaxCategoryNameLength)
	}
	return nil
}

func ValidateInventory(req domain.InventoryRequest) error {
	if strings.TrimSpace(req.ProductID) == "" {
		return domain.Invalid("product is required")
	}
	if err := ValidateQuantity(req.Quantity); err != nil {
		return err
	}
	if req.MinimumQuantity != nil && *req.MinimumQuantity < 0 {
		return domain.Invalid("minimum quantity cannot be negative")
	}
	return nil
}

// ValidateQuantity rejects stock levels below zero.
func ValidateQuantity(quantity int) error {
	if quantity < 0 {
		return domain.Invalid("stock quantity cannot be negative")
	}
	return nil
}

func ValidatePriceRange(min, max decimal.Decimal) error {
	if min.IsNegative() || max.IsNegative() {
		return domain.Invalid("prices cannot be negative")
	}
	if min.GreaterThan(max) {
		return domain.Invalid("minimum price cannot be greater than maximum price")
	}
	return nil
}
