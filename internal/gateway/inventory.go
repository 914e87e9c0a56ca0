package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

func (c *Client) ListInventory(ctx context.Context) ([]domain.Inventory, error) {
	return get[[]domain.Inventory](ctx, c, "ListInventory", "/data/inventory", nil)
}

func (c *Client) GetInventory(ctx context.Context, id string) (*domain.Inventory, error) {
	return send[domain.Inventory](ctx, c, "GetInventory", http.MethodGet, "/data/inventory/"+segment(id), nil, nil)
}

func (c *Client) GetInventoryByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	return send[domain.Inventory](ctx, c, "GetInventoryByProduct", http.MethodGet, "/data/inventory/product/"+segment(productID), nil, nil)
}

func (c *Client) LowStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	return get[[]domain.Inventory](ctx, c, "LowStockInventory", "/data/inventory/low-stock", nil)
}

func (c *Client) OutOfStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	return get[[]domain.Inventory](ctx, c, "OutOfStockInventory", "/data/inventory/out-of-stock", nil)
}

func (c *Client) CreateInventory(ctx context.Context, inv domain.Inventory) (*domain.Inventory, error) {
	return send[domain.Inventory](ctx, c, "CreateInventory", http.MethodPost, "/data/inventory", nil, inv)
}

func (c *Client) UpdateInventory(ctx context.Context, id string, inv domain.Inventory) (*domain.Inventory, error) {
	return send[domain.Inventory](ctx, c, "UpdateInventory", http.MethodPut, "/data/inventory/"+segment(id), nil, inv)
}

func (c *Client) UpdateInventoryQuantity(ctx context.Context, id string, quantity int) (*domain.Inventory, error) {
	query := url.Values{"quantity": {strconv.Itoa(quantity)}}
	return send[domain.Inventory](ctx, c, "UpdateInventoryQuantity", http.MethodPut, "/data/inventory/"+segment(id)+"/stock", query, nil)
}

func (c *Client) DeleteInventory(ctx context.Context, id string) error {
	return c.do(ctx, "DeleteInventory", http.MethodDelete, "/data/inventory/"+segment(id), nil, nil, nil)
}
