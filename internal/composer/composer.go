// Package composer turns entities fetched from the data service into the
// views returned to API callers. Nothing here performs I/O.
package composer

import "github.com/cloud-wave-best-zizon/catalog-service/internal/domain"

// Entity is implemented by every stored record.
type Entity interface {
	EntityID() string
	NaturalKey() string
}

func IndexByID[T Entity](items []T) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		index[item.EntityID()] = item
	}
	return index
}

// IndexByKey indexes inventory by product id, categories by name.
func IndexByKey[T Entity](items []T) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		index[item.NaturalKey()] = item
	}
	return index
}

func Product(p domain.Product, category *domain.Category, inventory *domain.Inventory) domain.ProductView {
	view := domain.ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
	}
	if category != nil {
		view.CategoryName = category.Name
	}
	if inventory != nil {
		stock := inventory.Quantity
		low := inventory.LowStock()
		view.Stock = &stock
		view.LowStock = &low
	}
	return view
}

func Products(products []domain.Product, categories map[string]domain.Category, inventory map[string]domain.Inventory) []domain.ProductView {
	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, Product(p, lookup(categories, p.CategoryID), lookup(inventory, p.ID)))
	}
	return views
}

func Category(c domain.Category, products []domain.Product, inventory map[string]domain.Inventory) domain.CategoryView {
	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, Product(p, &c, lookup(inventory, p.ID)))
	}
	count := len(products)
	if len(c.ProductIDs) > count {
		count = len(c.ProductIDs)
	}
	return domain.CategoryView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Products:     views,
		ProductCount: count,
	}
}

// Inventory composes an inventory view. The product argument wins over the
// snapshot carried by the record when both are present.
func Inventory(inv domain.Inventory, product *domain.Product) domain.InventoryView {
	if product == nil {
		product = inv.Product
	}
	view := domain.InventoryView{
		ID:              inv.ID,
		ProductID:       inv.ProductID,
		Quantity:        inv.Quantity,
		MinimumQuantity: inv.MinimumQuantity,
		UpdatedAt:       inv.UpdatedAt,
		LowStock:        inv.LowStock(),
		OutOfStock:      inv.OutOfStock(),
	}
	if product != nil {
		view.ProductName = product.Name
	}
	return view
}

func Inventories(records []domain.Inventory) []domain.InventoryView {
	views := make([]domain.InventoryView, 0, len(records))
	for _, inv := range records {
		views = append(views, Inventory(inv, nil))
	}
	return views
}

// StockProducts builds product views from inventory records carrying a
// product snapshot. Records without one are skipped.
func StockProducts(records []domain.Inventory, categories map[string]domain.Category) []domain.ProductView {
	views := make([]domain.ProductView, 0, len(records))
	for i := range records {
		inv := records[i]
		if inv.Product == nil {
			continue
		}
		views = append(views, Product(*inv.Product, lookup(categories, inv.Product.CategoryID), &inv))
	}
	return views
}

func lookup[T any](index map[string]T, key string) *T {
	v, ok := index[key]
	if !ok {
		return nil
	}
	return &v
}
