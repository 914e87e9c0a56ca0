package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/composer"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductService struct {
	orchestrator
}

func NewProductService(store Store, publisher Publisher, logger *zap.Logger) *ProductService {
	return &ProductService{orchestrator{store: store, logger: logger, publisher: publisher}}
}

func (s *ProductService) List(ctx context.Context) ([]domain.ProductView, error) {
	products, err := list(ctx, &s.orchestrator, "ListProducts", s.store.ListProducts)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, products)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.ProductView, error) {
	product, err := fetch(ctx, &s.orchestrator, "GetProduct", domain.ErrProductNotFound, s.store.GetProduct, id)
	if err != nil {
		return nil, err
	}
	category, err := optional(ctx, &s.orchestrator, "GetCategory", s.store.GetCategory, product.CategoryID)
	if err != nil {
		return nil, err
	}
	inventory, err := optional(ctx, &s.orchestrator, "GetInventoryByProduct", s.store.GetInventoryByProduct, product.ID)
	if err != nil {
		return nil, err
	}
	view := composer.Product(*product, category, inventory)
	return &view, nil
}

func (s *ProductService) ByCategory(ctx context.Context, categoryName string) ([]domain.ProductView, error) {
	products, err := fetch(ctx, &s.orchestrator, "ProductsByCategory", nil, s.store.ProductsByCategory, categoryName)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, products)
}

func (s *ProductService) SearchByName(ctx context.Context, fragment string) ([]domain.ProductView, error) {
	products, err := fetch(ctx, &s.orchestrator, "ProductsByName", nil, s.store.ProductsByName, fragment)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, products)
}

func (s *ProductService) ByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.ProductView, error) {
	if err := validation.ValidatePriceRange(min, max); err != nil {
		return nil, err
	}
	products, err := s.store.ProductsByPriceRange(ctx, min, max)
	if err != nil {
		return nil, s.translate("ProductsByPriceRange", err, nil, min.String()+".."+max.String())
	}
	return s.compose(ctx, products)
}

// Create persists the product and then its companion inventory record. The
// two writes are independent: when the second fails the product remains.
func (s *ProductService) Create(ctx context.Context, req domain.ProductRequest) (*domain.ProductView, error) {
	if err := validation.ValidateProduct(req); err != nil {
		return nil, err
	}
	s.logger.Info("Creating product", zap.String("name", req.Name), zap.String("category_id", req.CategoryID))

	category, err := fetch(ctx, &s.orchestrator, "GetCategory", domain.ErrCategoryNotFound, s.store.GetCategory, req.CategoryID)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateProduct(ctx, domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  category.ID,
	})
	if err != nil {
		return nil, s.translate("CreateProduct", err, nil, req.Name)
	}

	inventory, err := s.store.CreateInventory(ctx, newInventory(created.ID, req.Stock, req.MinimumStock))
	if err != nil {
		s.logger.Error("Product created without inventory record",
			zap.String("product_id", created.ID),
			zap.Error(err))
		return nil, s.translate("CreateInventory", err, nil, created.ID)
	}

	s.logger.Info("Product created successfully",
		zap.String("product_id", created.ID),
		zap.Int("initial_stock", inventory.Quantity))
	s.notify(ctx, domain.EventProductCreated, created.ID, inventory.Quantity, inventory.MinimumQuantity)

	view := composer.Product(*created, category, inventory)
	return &view, nil
}

// Update replaces the mutable fields of a product. When a stock value is
// supplied the inventory record is updated, or created if missing.
func (s *ProductService) Update(ctx context.Context, id string, req domain.ProductRequest) (*domain.ProductView, error) {
	if err := validation.ValidateProduct(req); err != nil {
		return nil, err
	}
	s.logger.Info("Updating product", zap.String("product_id", id))

	existing, err := fetch(ctx, &s.orchestrator, "GetProduct", domain.ErrProductNotFound, s.store.GetProduct, id)
	if err != nil {
		return nil, err
	}
	category, err := fetch(ctx, &s.orchestrator, "GetCategory", domain.ErrCategoryNotFound, s.store.GetCategory, req.CategoryID)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = *req.Price
	existing.CategoryID = category.ID

	updated, err := s.store.UpdateProduct(ctx, id, *existing)
	if err != nil {
		return nil, s.translate("UpdateProduct", err, domain.ErrProductNotFound, id)
	}

	var inventory *domain.Inventory
	if req.Stock != nil {
		inventory, err = s.upsertInventory(ctx, updated.ID, *req.Stock, req.MinimumStock)
	} else {
		inventory, err = optional(ctx, &s.orchestrator, "GetInventoryByProduct", s.store.GetInventoryByProduct, updated.ID)
	}
	if err != nil {
		return nil, err
	}

	view := composer.Product(*updated, category, inventory)
	return &view, nil
}

func (s *ProductService) upsertInventory(ctx context.Context, productID string, stock int, minimum *int) (*domain.Inventory, error) {
	current, err := optional(ctx, &s.orchestrator, "GetInventoryByProduct", s.store.GetInventoryByProduct, productID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		created, err := s.store.CreateInventory(ctx, newInventory(productID, &stock, minimum))
		if err != nil {
			return nil, s.translate("CreateInventory", err, nil, productID)
		}
		return created, nil
	}

	current.Quantity = stock
	if minimum != nil {
		current.MinimumQuantity = *minimum
	}
	current.Product = nil
	updated, err := s.store.UpdateInventory(ctx, current.ID, *current)
	if err != nil {
		return nil, s.translate("UpdateInventory", err, domain.ErrInventoryNotFound, current.ID)
	}
	s.notify(ctx, domain.EventStockUpdated, productID, updated.Quantity, updated.MinimumQuantity)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	s.logger.Info("Deleting product", zap.String("product_id", id))
	if _, err := fetch(ctx, &s.orchestrator, "GetProduct", domain.ErrProductNotFound, s.store.GetProduct, id); err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return s.translate("DeleteProduct", err, domain.ErrProductNotFound, id)
	}
	s.notify(ctx, domain.EventProductDeleted, id, 0, 0)
	return nil
}

// LowStock lists products whose stock is at or below their threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]domain.ProductView, error) {
	records, err := list(ctx, &s.orchestrator, "LowStockInventory", s.store.LowStockInventory)
	if err != nil {
		return nil, err
	}
	categories, err := list(ctx, &s.orchestrator, "ListCategories", s.store.ListCategories)
	if err != nil {
		return nil, err
	}
	return composer.StockProducts(records, composer.IndexByID(categories)), nil
}

// compose resolves category names and stock for a batch of products with
// one category listing and one inventory listing.
func (s *ProductService) compose(ctx context.Context, products []domain.Product) ([]domain.ProductView, error) {
	if len(products) == 0 {
		return []domain.ProductView{}, nil
	}
	categories, err := list(ctx, &s.orchestrator, "ListCategories", s.store.ListCategories)
	if err != nil {
		return nil, err
	}
	inventory, err := list(ctx, &s.orchestrator, "ListInventory", s.store.ListInventory)
	if err != nil {
		return nil, err
	}
	return composer.Products(products, composer.IndexByID(categories), composer.IndexByKey(inventory)), nil
}

func newInventory(productID string, stock, minimum *int) domain.Inventory {
	inv := domain.Inventory{
		ProductID:       productID,
		MinimumQuantity: domain.DefaultMinimumQuantity,
	}
	if stock != nil {
		inv.Quantity = *stock
	}
	if minimum != nil {
		inv.MinimumQuantity = *minimum
	}
	return inv
}
