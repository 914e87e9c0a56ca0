package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps every table in process memory. It backs LOCAL_MODE.
type MemoryStore struct {
	mu         sync.RWMutex
	products   map[string]domain.Product
	categories map[string]domain.Category
	inventory  map[string]domain.Inventory
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   make(map[string]domain.Product),
		categories: make(map[string]domain.Category),
		inventory:  make(map[string]domain.Inventory),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.filterProducts(func(domain.Product) bool { return true }), nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = p
	return &p, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	s.products[id] = p
	return &p, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ProductsByCategoryID(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.filterProducts(func(p domain.Product) bool { return p.CategoryID == categoryID }), nil
}

func (s *MemoryStore) ProductsByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	fragment = strings.ToLower(fragment)
	return s.filterProducts(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), fragment)
	}), nil
}

func (s *MemoryStore) ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error) {
	return s.filterProducts(func(p domain.Product) bool {
		return p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max)
	}), nil
}

func (s *MemoryStore) filterProducts(keep func(domain.Product) bool) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return byNameThenID(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return byNameThenID(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out, nil
}

func (s *MemoryStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	c.ProductIDs = nil
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.categories[c.ID] = c
	return &c, nil
}

func (s *MemoryStore) UpdateCategory(ctx context.Context, id string, c domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.ID = id
	c.ProductIDs = nil
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()
	s.categories[id] = c
	return &c, nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) ListInventory(ctx context.Context) ([]domain.Inventory, error) {
	return s.filterInventory(func(domain.Inventory) bool { return true }), nil
}

func (s *MemoryStore) GetInventory(ctx context.Context, id string) (*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventory[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (s *MemoryStore) GetInventoryByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.inventory {
		if inv.ProductID == productID {
			return &inv, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) LowStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	return s.filterInventory(domain.Inventory.LowStock), nil
}

func (s *MemoryStore) OutOfStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	return s.filterInventory(domain.Inventory.OutOfStock), nil
}

func (s *MemoryStore) CreateInventory(ctx context.Context, inv domain.Inventory) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = uuid.NewString()
	inv.Product = nil
	inv.UpdatedAt = s.now()
	s.inventory[inv.ID] = inv
	return &inv, nil
}

func (s *MemoryStore) UpdateInventory(ctx context.Context, id string, inv domain.Inventory) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inventory[id]; !ok {
		return nil, ErrNotFound
	}
	inv.ID = id
	inv.Product = nil
	inv.UpdatedAt = s.now()
	s.inventory[id] = inv
	return &inv, nil
}

func (s *MemoryStore) UpdateInventoryQuantity(ctx context.Context, id string, quantity int) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventory[id]
	if !ok {
		return nil, ErrNotFound
	}
	inv.Quantity = quantity
	inv.UpdatedAt = s.now()
	s.inventory[id] = inv
	return &inv, nil
}

func (s *MemoryStore) DeleteInventory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inventory[id]; !ok {
		return ErrNotFound
	}
	delete(s.inventory, id)
	return nil
}

func (s *MemoryStore) filterInventory(keep func(domain.Inventory) bool) []domain.Inventory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Inventory, 0)
	for _, inv := range s.inventory {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func byNameThenID(nameA, idA, nameB, idB string) bool {
	if nameA != nameB {
		return nameA < nameB
	}
	return idA < idB
}
