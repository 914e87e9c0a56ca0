package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/composer"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/validation"
	"go.uber.org/zap"
)

type InventoryService struct {
	orchestrator
}

func NewInventoryService(store Store, publisher Publisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{orchestrator{store: store, logger: logger, publisher: publisher}}
}

func (s *InventoryService) List(ctx context.Context) ([]domain.InventoryView, error) {
	records, err := list(ctx, &s.orchestrator, "ListInventory", s.store.ListInventory)
	if err != nil {
		return nil, err
	}
	return composer.Inventories(records), nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (*domain.InventoryView, error) {
	inv, err := fetch(ctx, &s.orchestrator, "GetInventory", domain.ErrInventoryNotFound, s.store.GetInventory, id)
	if err != nil {
		return nil, err
	}
	view := composer.Inventory(*inv, nil)
	return &view, nil
}

func (s *InventoryService) GetByProduct(ctx context.Context, productID string) (*domain.InventoryView, error) {
	inv, err := fetch(ctx, &s.orchestrator, "GetInventoryByProduct", domain.ErrInventoryNotFound, s.store.GetInventoryByProduct, productID)
	if err != nil {
		return nil, err
	}
	view := composer.Inventory(*inv, nil)
	return &view, nil
}

func (s *InventoryService) LowStock(ctx context.Context) ([]domain.InventoryView, error) {
	records, err := list(ctx, &s.orchestrator, "LowStockInventory", s.store.LowStockInventory)
	if err != nil {
		return nil, err
	}
	return composer.Inventories(records), nil
}

func (s *InventoryService) OutOfStock(ctx context.Context) ([]domain.InventoryView, error) {
	records, err := list(ctx, &s.orchestrator, "OutOfStockInventory", s.store.OutOfStockInventory)
	if err != nil {
		return nil, err
	}
	return composer.Inventories(records), nil
}

// OutOfStockProducts lists products with zero stock as product views.
func (s *InventoryService) OutOfStockProducts(ctx context.Context) ([]domain.ProductView, error) {
	records, err := list(ctx, &s.orchestrator, "OutOfStockInventory", s.store.OutOfStockInventory)
	if err != nil {
		return nil, err
	}
	categories, err := list(ctx, &s.orchestrator, "ListCategories", s.store.ListCategories)
	if err != nil {
		return nil, err
	}
	return composer.StockProducts(records, composer.IndexByID(categories)), nil
}

// Create registers the inventory record of a product that has none yet.
func (s *InventoryService) Create(ctx context.Context, req domain.InventoryRequest) (*domain.InventoryView, error) {
	if err := validation.ValidateInventory(req); err != nil {
		return nil, err
	}
	s.logger.Info("Creating inventory", zap.String("product_id", req.ProductID))

	product, err := fetch(ctx, &s.orchestrator, "GetProduct", domain.ErrProductNotFound, s.store.GetProduct, req.ProductID)
	if err != nil {
		return nil, err
	}
	existing, err := optional(ctx, &s.orchestrator, "GetInventoryByProduct", s.store.GetInventoryByProduct, product.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Invalid("product %s already has an inventory record", product.ID)
	}

	created, err := s.store.CreateInventory(ctx, newInventory(product.ID, &req.Quantity, req.MinimumQuantity))
	if err != nil {
		return nil, s.translate("CreateInventory", err, nil, product.ID)
	}
	view := composer.Inventory(*created, product)
	return &view, nil
}

func (s *InventoryService) Update(ctx context.Context, id string, req domain.InventoryRequest) (*domain.InventoryView, error) {
	if err := validation.ValidateInventory(req); err != nil {
		return nil, err
	}
	s.logger.Info("Updating inventory", zap.String("inventory_id", id))

	existing, err := fetch(ctx, &s.orchestrator, "GetInventory", domain.ErrInventoryNotFound, s.store.GetInventory, id)
	if err != nil {
		return nil, err
	}
	product, err := fetch(ctx, &s.orchestrator, "GetProduct", domain.ErrProductNotFound, s.store.GetProduct, req.ProductID)
	if err != nil {
		return nil, err
	}

	existing.ProductID = product.ID
	existing.Quantity = req.Quantity
	if req.MinimumQuantity != nil {
		existing.MinimumQuantity = *req.MinimumQuantity
	}
	existing.Product = nil

	updated, err := s.store.UpdateInventory(ctx, id, *existing)
	if err != nil {
		return nil, s.translate("UpdateInventory", err, domain.ErrInventoryNotFound, id)
	}
	s.stockChanged(ctx, *updated)

	view := composer.Inventory(*updated, product)
	return &view, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	s.logger.Info("Deleting inventory", zap.String("inventory_id", id))
	if _, err := fetch(ctx, &s.orchestrator, "GetInventory", domain.ErrInventoryNotFound, s.store.GetInventory, id); err != nil {
		return err
	}
	if err := s.store.DeleteInventory(ctx, id); err != nil {
		return s.translate("DeleteInventory", err, domain.ErrInventoryNotFound, id)
	}
	return nil
}

// UpdateStock sets the stock of a product through the quantity-only update.
func (s *InventoryService) UpdateStock(ctx context.Context, productID string, quantity int) (*domain.InventoryView, error) {
	if err := validation.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	s.logger.Info("Updating stock",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity))

	inv, err := fetch(ctx, &s.orchestrator, "GetInventoryByProduct", domain.ErrInventoryNotFound, s.store.GetInventoryByProduct, productID)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateInventoryQuantity(ctx, inv.ID, quantity)
	if err != nil {
		return nil, s.translate("UpdateInventoryQuantity", err, domain.ErrInventoryNotFound, inv.ID)
	}

	s.logger.Info("Stock updated successfully",
		zap.String("product_id", productID),
		zap.Int("previous_stock", inv.Quantity),
		zap.Int("new_stock", updated.Quantity))
	s.stockChanged(ctx, *updated)

	view := composer.Inventory(*updated, inv.Product)
	return &view, nil
}

func (s *InventoryService) stockChanged(ctx context.Context, inv domain.Inventory) {
	s.notify(ctx, domain.EventStockUpdated, inv.ProductID, inv.Quantity, inv.MinimumQuantity)
	if inv.LowStock() {
		s.notify(ctx, domain.EventLowStock, inv.ProductID, inv.Quantity, inv.MinimumQuantity)
	}
}
