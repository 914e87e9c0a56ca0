package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/gateway"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fakeStore mimics the data service: ids are assigned on create, category
// reads carry product ids and inventory reads carry a product snapshot.
type fakeStore struct {
	mu         sync.Mutex
	seq        int
	products   map[string]domain.Product
	categories map[string]domain.Category
	inventory  map[string]domain.Inventory
	fail       map[string]error
	calls      map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:   make(map[string]domain.Product),
		categories: make(map[string]domain.Category),
		inventory:  make(map[string]domain.Inventory),
		fail:       make(map[string]error),
		calls:      make(map[string]int),
	}
}

func (f *fakeStore) enter(op string) error {
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeStore) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) seedCategory(name string) domain.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := domain.Category{ID: f.nextID("cat"), Name: name}
	f.categories[c.ID] = c
	return c
}

func (f *fakeStore) seedProduct(name, price, categoryID string, quantity, minimum int) domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Product{ID: f.nextID("prod"), Name: name, Price: decimal.RequireFromString(price), CategoryID: categoryID}
	f.products[p.ID] = p
	if quantity >= 0 {
		inv := domain.Inventory{ID: f.nextID("inv"), ProductID: p.ID, Quantity: quantity, MinimumQuantity: minimum}
		f.inventory[inv.ID] = inv
	}
	return p
}

func (f *fakeStore) inventoryFor(productID string) (domain.Inventory, bool) {
	for _, inv := range f.inventory {
		if inv.ProductID == productID {
			return inv, true
		}
	}
	return domain.Inventory{}, false
}

func (f *fakeStore) withProductIDs(c domain.Category) domain.Category {
	c.ProductIDs = nil
	for _, p := range f.products {
		if p.CategoryID == c.ID {
			c.ProductIDs = append(c.ProductIDs, p.ID)
		}
	}
	return c
}

func (f *fakeStore) withSnapshot(inv domain.Inventory) domain.Inventory {
	if p, ok := f.products[inv.ProductID]; ok {
		inv.Product = &p
	}
	return inv
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

func (f *fakeStore) filterInventory(keep func(domain.Inventory) bool) []domain.Inventory {
	var out []domain.Inventory
	for _, inv := range sortedValues(f.inventory, func(i domain.Inventory) string { return i.ID }) {
		if keep(inv) {
			out = append(out, f.withSnapshot(inv))
		}
	}
	return out
}

func (f *fakeStore) filterProducts(keep func(domain.Product) bool) []domain.Product {
	var out []domain.Product
	for _, p := range sortedValues(f.products, func(p domain.Product) string { return p.ID }) {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListProducts"); err != nil {
		return nil, err
	}
	return f.filterProducts(func(domain.Product) bool { return true }), nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProduct"); err != nil {
		return nil, err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateProduct"); err != nil {
		return nil, err
	}
	p.ID = f.nextID("prod")
	f.products[p.ID] = p
	return &p, nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateProduct"); err != nil {
		return nil, err
	}
	if _, ok := f.products[id]; !ok {
		return nil, gateway.ErrNotFound
	}
	p.ID = id
	f.products[id] = p
	return &p, nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteProduct"); err != nil {
		return err
	}
	if _, ok := f.products[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) ProductsByCategory(ctx context.Context, categoryName string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ProductsByCategory"); err != nil {
		return nil, err
	}
	return f.filterProducts(func(p domain.Product) bool {
		c, ok := f.categories[p.CategoryID]
		return ok && c.Name == categoryName
	}), nil
}

func (f *fakeStore) ProductsByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ProductsByName"); err != nil {
		return nil, err
	}
	return f.filterProducts(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(fragment))
	}), nil
}

func (f *fakeStore) ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ProductsByPriceRange"); err != nil {
		return nil, err
	}
	return f.filterProducts(func(p domain.Product) bool {
		return p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max)
	}), nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListCategories"); err != nil {
		return nil, err
	}
	var out []domain.Category
	for _, c := range sortedValues(f.categories, func(c domain.Category) string { return c.ID }) {
		out = append(out, f.withProductIDs(c))
	}
	return out, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetCategory"); err != nil {
		return nil, err
	}
	c, ok := f.categories[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	c = f.withProductIDs(c)
	return &c, nil
}

func (f *fakeStore) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetCategoryByName"); err != nil {
		return nil, err
	}
	for _, c := range f.categories {
		if c.Name == name {
			c = f.withProductIDs(c)
			return &c, nil
		}
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeStore) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateCategory"); err != nil {
		return nil, err
	}
	c.ID = f.nextID("cat")
	f.categories[c.ID] = c
	return &c, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, id string, c domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateCategory"); err != nil {
		return nil, err
	}
	if _, ok := f.categories[id]; !ok {
		return nil, gateway.ErrNotFound
	}
	c.ID = id
	f.categories[id] = c
	c = f.withProductIDs(c)
	return &c, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteCategory"); err != nil {
		return err
	}
	if _, ok := f.categories[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) ListInventory(ctx context.Context) ([]domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListInventory"); err != nil {
		return nil, err
	}
	return f.filterInventory(func(domain.Inventory) bool { return true }), nil
}

func (f *fakeStore) GetInventory(ctx context.Context, id string) (*domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetInventory"); err != nil {
		return nil, err
	}
	inv, ok := f.inventory[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	inv = f.withSnapshot(inv)
	return &inv, nil
}

func (f *fakeStore) GetInventoryByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetInventoryByProduct"); err != nil {
		return nil, err
	}
	inv, ok := f.inventoryFor(productID)
	if !ok {
		return nil, gateway.ErrNotFound
	}
	inv = f.withSnapshot(inv)
	return &inv, nil
}

func (f *fakeStore) LowStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("LowStockInventory"); err != nil {
		return nil, err
	}
	return f.filterInventory(domain.Inventory.LowStock), nil
}

func (f *fakeStore) OutOfStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("OutOfStockInventory"); err != nil {
		return nil, err
	}
	return f.filterInventory(domain.Inventory.OutOfStock), nil
}

func (f *fakeStore) CreateInventory(ctx context.Context, inv domain.Inventory) (*domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateInventory"); err != nil {
		return nil, err
	}
	inv.ID = f.nextID("inv")
	f.inventory[inv.ID] = inv
	inv = f.withSnapshot(inv)
	return &inv, nil
}

func (f *fakeStore) UpdateInventory(ctx context.Context, id string, inv domain.Inventory) (*domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateInventory"); err != nil {
		return nil, err
	}
	if _, ok := f.inventory[id]; !ok {
		return nil, gateway.ErrNotFound
	}
	inv.ID = id
	f.inventory[id] = inv
	inv = f.withSnapshot(inv)
	return &inv, nil
}

func (f *fakeStore) UpdateInventoryQuantity(ctx context.Context, id string, quantity int) (*domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateInventoryQuantity"); err != nil {
		return nil, err
	}
	inv, ok := f.inventory[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	inv.Quantity = quantity
	f.inventory[id] = inv
	inv = f.withSnapshot(inv)
	return &inv, nil
}

func (f *fakeStore) DeleteInventory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteInventory"); err != nil {
		return err
	}
	if _, ok := f.inventory[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.inventory, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.CatalogEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []domain.CatalogEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.CatalogEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func testLogger() *zap.Logger { return zap.NewNop() }

func intPtr(v int) *int { return &v }

func pricePtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
