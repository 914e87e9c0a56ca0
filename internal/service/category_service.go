package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/composer"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/validation"
	"go.uber.org/zap"
)

type CategoryService struct {
	orchestrator
}

func NewCategoryService(store Store, logger *zap.Logger) *CategoryService {
	return &CategoryService{orchestrator{store: store, logger: logger}}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.CategoryView, error) {
	categories, err := list(ctx, &s.orchestrator, "ListCategories", s.store.ListCategories)
	if err != nil {
		return nil, err
	}
	products, err := list(ctx, &s.orchestrator, "ListProducts", s.store.ListProducts)
	if err != nil {
		return nil, err
	}
	inventory, err := list(ctx, &s.orchestrator, "ListInventory", s.store.ListInventory)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]domain.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}
	stock := composer.IndexByKey(inventory)

	views := make([]domain.CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, composer.Category(c, byCategory[c.ID], stock))
	}
	return views, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.CategoryView, error) {
	category, err := fetch(ctx, &s.orchestrator, "GetCategory", domain.ErrCategoryNotFound, s.store.GetCategory, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *category)
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*domain.CategoryView, error) {
	category, err := fetch(ctx, &s.orchestrator, "GetCategoryByName", domain.ErrCategoryNotFound, s.store.GetCategoryByName, name)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *category)
}

func (s *CategoryService) Create(ctx context.Context, req domain.CategoryRequest) (*domain.CategoryView, error) {
	if err := validation.ValidateCategory(req); err != nil {
		return nil, err
	}
	s.logger.Info("Creating category", zap.String("name", req.Name))

	if err := s.ensureNameAvailable(ctx, req.Name, ""); err != nil {
		return nil, err
	}
	created, err := s.store.CreateCategory(ctx, domain.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, s.translate("CreateCategory", err, nil, req.Name)
	}

	s.logger.Info("Category created successfully", zap.String("category_id", created.ID))
	view := composer.Category(*created, nil, nil)
	return &view, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req domain.CategoryRequest) (*domain.CategoryView, error) {
	if err := validation.ValidateCategory(req); err != nil {
		return nil, err
	}
	s.logger.Info("Updating category", zap.String("category_id", id))

	existing, err := fetch(ctx, &s.orchestrator, "GetCategory", domain.ErrCategoryNotFound, s.store.GetCategory, id)
	if err != nil {
		return nil, err
	}
	if existing.Name != req.Name {
		if err := s.ensureNameAvailable(ctx, req.Name, id); err != nil {
			return nil, err
		}
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.ProductIDs = nil
	updated, err := s.store.UpdateCategory(ctx, id, *existing)
	if err != nil {
		return nil, s.translate("UpdateCategory", err, domain.ErrCategoryNotFound, id)
	}
	return s.view(ctx, *updated)
}

// Delete removes a category that no product references.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	s.logger.Info("Deleting category", zap.String("category_id", id))

	category, err := fetch(ctx, &s.orchestrator, "GetCategory", domain.ErrCategoryNotFound, s.store.GetCategory, id)
	if err != nil {
		return err
	}
	if n := len(category.ProductIDs); n > 0 {
		return domain.Invalid("category %q cannot be deleted: %d product(s) still reference it", category.Name, n)
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return s.translate("DeleteCategory", err, domain.ErrCategoryNotFound, id)
	}
	return nil
}

// Products lists the products filed under the category with the given id.
func (s *CategoryService) Products(ctx context.Context, id string) ([]domain.ProductView, error) {
	category, err := fetch(ctx, &s.orchestrator, "GetCategory", domain.ErrCategoryNotFound, s.store.GetCategory, id)
	if err != nil {
		return nil, err
	}
	products, err := fetch(ctx, &s.orchestrator, "ProductsByCategory", nil, s.store.ProductsByCategory, category.Name)
	if err != nil {
		return nil, err
	}
	inventory, err := list(ctx, &s.orchestrator, "ListInventory", s.store.ListInventory)
	if err != nil {
		return nil, err
	}
	return composer.Category(*category, products, composer.IndexByKey(inventory)).Products, nil
}

func (s *CategoryService) view(ctx context.Context, category domain.Category) (*domain.CategoryView, error) {
	products, err := fetch(ctx, &s.orchestrator, "ProductsByCategory", nil, s.store.ProductsByCategory, category.Name)
	if err != nil {
		return nil, err
	}
	inventory, err := list(ctx, &s.orchestrator, "ListInventory", s.store.ListInventory)
	if err != nil {
		return nil, err
	}
	view := composer.Category(category, products, composer.IndexByKey(inventory))
	return &view, nil
}

// ensureNameAvailable rejects a name held by a category other than exceptID.
func (s *CategoryService) ensureNameAvailable(ctx context.Context, name, exceptID string) error {
	holder, err := optional(ctx, &s.orchestrator, "GetCategoryByName", s.store.GetCategoryByName, name)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID != exceptID {
		return domain.Invalid("category %q already exists", name)
	}
	return nil
}
