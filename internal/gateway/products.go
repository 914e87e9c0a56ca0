package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return get[[]domain.Product](ctx, c, "ListProducts", "/data/products", nil)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return send[domain.Product](ctx, c, "GetProduct", http.MethodGet, "/data/products/"+segment(id), nil, nil)
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return send[domain.Product](ctx, c, "CreateProduct", http.MethodPost, "/data/products", nil, p)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error) {
	return send[domain.Product](ctx, c, "UpdateProduct", http.MethodPut, "/data/products/"+segment(id), nil, p)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, "DeleteProduct", http.MethodDelete, "/data/products/"+segment(id), nil, nil, nil)
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryName string) ([]domain.Product, error) {
	return get[[]domain.Product](ctx, c, "ProductsByCategory", "/data/products/by-category", url.Values{"category": {categoryName}})
}

func (c *Client) ProductsByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	return get[[]domain.Product](ctx, c, "ProductsByName", "/data/products/search", url.Values{"name": {fragment}})
}

func (c *Client) ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error) {
	query := url.Values{"min": {min.String()}, "max": {max.String()}}
	return get[[]domain.Product](ctx, c, "ProductsByPriceRange", "/data/products/price", query)
}
