package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
)

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return get[[]domain.Category](ctx, c, "ListCategories", "/data/categories", nil)
}

func (c *Client) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return send[domain.Category](ctx, c, "GetCategory", http.MethodGet, "/data/categories/"+segment(id), nil, nil)
}

func (c *Client) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return send[domain.Category](ctx, c, "GetCategoryByName", http.MethodGet, "/data/categories/by-name", url.Values{"name": {name}}, nil)
}

func (c *Client) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	return send[domain.Category](ctx, c, "CreateCategory", http.MethodPost, "/data/categories", nil, category)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, category domain.Category) (*domain.Category, error) {
	return send[domain.Category](ctx, c, "UpdateCategory", http.MethodPut, "/data/categories/"+segment(id), nil, category)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, "DeleteCategory", http.MethodDelete, "/data/categories/"+segment(id), nil, nil, nil)
}
