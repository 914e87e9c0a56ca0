package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Store is the data service surface used by the orchestrators. Failures are
// reported as gateway.ErrNotFound or gateway.ErrUnavailable.
type Store interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ProductsByCategory(ctx context.Context, categoryName string) ([]domain.Product, error)
	ProductsByName(ctx context.Context, fragment string) ([]domain.Product, error)
	ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, c domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListInventory(ctx context.Context) ([]domain.Inventory, error)
	GetInventory(ctx context.Context, id string) (*domain.Inventory, error)
	GetInventoryByProduct(ctx context.Context, productID string) (*domain.Inventory, error)
	LowStockInventory(ctx context.Context) ([]domain.Inventory, error)
	OutOfStockInventory(ctx context.Context) ([]domain.Inventory, error)
	CreateInventory(ctx context.Context, inv domain.Inventory) (*domain.Inventory, error)
	UpdateInventory(ctx context.Context, id string, inv domain.Inventory) (*domain.Inventory, error)
	UpdateInventoryQuantity(ctx context.Context, id string, quantity int) (*domain.Inventory, error)
	DeleteInventory(ctx context.Context, id string) error
}

// Publisher receives catalog events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, event domain.CatalogEvent) error
}
