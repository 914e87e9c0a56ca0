package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/composer"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DataHandler serves the persistence tier under /data. It resolves the
// references the catalog tier relies on: categories carry the ids of their
// products and inventory records carry a snapshot of their product.
type DataHandler struct {
	store  repository.Store
	logger *zap.Logger
}

func NewDataHandler(store repository.Store, logger *zap.Logger) *DataHandler {
	return &DataHandler{store: store, logger: logger}
}

func (h *DataHandler) Register(data *gin.RouterGroup) {
	products := data.Group("/products")
	{
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.GET("/search", h.productsByName)
		products.GET("/price", h.productsByPrice)
		products.GET("/by-category", h.productsByCategory)
		products.GET("/:id", h.getProduct)
		products.PUT("/:id", h.updateProduct)
		products.DELETE("/:id", h.deleteProduct)
	}

	categories := data.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.POST("", h.createCategory)
		categories.GET("/by-name", h.categoryByName)
		categories.GET("/:id", h.getCategory)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
	}

	inventory := data.Group("/inventory")
	{
		inventory.GET("", h.listInventory)
		inventory.POST("", h.createInventory)
		inventory.GET("/low-stock", h.lowStock)
		inventory.GET("/out-of-stock", h.outOfStock)
		inventory.GET("/product/:productId", h.inventoryByProduct)
		inventory.GET("/:id", h.getInventory)
		inventory.PUT("/:id", h.updateInventory)
		inventory.PUT("/:id/stock", h.updateQuantity)
		inventory.DELETE("/:id", h.deleteInventory)
	}
}

func (h *DataHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("Data store failure",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	writeError(c, http.StatusInternalServerError, err.Error())
}

// Products

func (h *DataHandler) listProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	h.respondProducts(c, products, err)
}

func (h *DataHandler) productsByName(c *gin.Context) {
	products, err := h.store.ProductsByName(c.Request.Context(), c.Query("name"))
	h.respondProducts(c, products, err)
}

func (h *DataHandler) productsByPrice(c *gin.Context) {
	min, errMin := decimal.NewFromString(c.Query("min"))
	max, errMax := decimal.NewFromString(c.Query("max"))
	if errMin != nil || errMax != nil {
		badRequest(c, "query parameters 'min' and 'max' must be numbers")
		return
	}
	products, err := h.store.ProductsByPriceRange(c.Request.Context(), min, max)
	h.respondProducts(c, products, err)
}

// productsByCategory answers an empty list for an unknown category name.
func (h *DataHandler) productsByCategory(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := h.store.GetCategoryByName(ctx, c.Query("category"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusOK, []domain.Product{})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	products, err := h.store.ProductsByCategoryID(ctx, category.ID)
	h.respondProducts(c, products, err)
}

func (h *DataHandler) respondProducts(c *gin.Context, products []domain.Product, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *DataHandler) getProduct(c *gin.Context) {
	product, err := h.store.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *DataHandler) createProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	created, err := h.store.CreateProduct(c.Request.Context(), product)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DataHandler) updateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	updated, err := h.store.UpdateProduct(c.Request.Context(), c.Param("id"), product)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteProduct also removes the product's inventory record.
func (h *DataHandler) deleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.store.DeleteProduct(ctx, id); err != nil {
		h.fail(c, err)
		return
	}

	inv, err := h.store.GetInventoryByProduct(ctx, id)
	switch {
	case err == nil:
		if err := h.store.DeleteInventory(ctx, inv.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			h.logger.Error("Failed to remove inventory of deleted product",
				zap.String("product_id", id),
				zap.Error(err))
		}
	case !errors.Is(err, repository.ErrNotFound):
		h.logger.Error("Failed to look up inventory of deleted product",
			zap.String("product_id", id),
			zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// Categories

func (h *DataHandler) listCategories(c *gin.Context) {
	ctx := c.Request.Context()
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	products, err := h.store.ListProducts(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	refs := make(map[string][]string)
	for _, p := range products {
		refs[p.CategoryID] = append(refs[p.CategoryID], p.ID)
	}
	for i := range categories {
		categories[i].ProductIDs = refs[categories[i].ID]
	}
	c.JSON(http.StatusOK, categories)
}

func (h *DataHandler) getCategory(c *gin.Context) {
	category, err := h.store.GetCategory(c.Request.Context(), c.Param("id"))
	h.respondCategory(c, http.StatusOK, category, err)
}

func (h *DataHandler) categoryByName(c *gin.Context) {
	category, err := h.store.GetCategoryByName(c.Request.Context(), c.Query("name"))
	h.respondCategory(c, http.StatusOK, category, err)
}

func (h *DataHandler) createCategory(c *gin.Context) {
	var category domain.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	created, err := h.store.CreateCategory(c.Request.Context(), category)
	h.respondCategory(c, http.StatusCreated, created, err)
}

func (h *DataHandler) updateCategory(c *gin.Context) {
	var category domain.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	updated, err := h.store.UpdateCategory(c.Request.Context(), c.Param("id"), category)
	h.respondCategory(c, http.StatusOK, updated, err)
}

func (h *DataHandler) deleteCategory(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DataHandler) respondCategory(c *gin.Context, status int, category *domain.Category, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	products, err := h.store.ProductsByCategoryID(c.Request.Context(), category.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	category.ProductIDs = nil
	for _, p := range products {
		category.ProductIDs = append(category.ProductIDs, p.ID)
	}
	c.JSON(status, category)
}

// Inventory

func (h *DataHandler) listInventory(c *gin.Context) {
	records, err := h.store.ListInventory(c.Request.Context())
	h.respondInventoryList(c, records, err)
}

func (h *DataHandler) lowStock(c *gin.Context) {
	records, err := h.store.LowStockInventory(c.Request.Context())
	h.respondInventoryList(c, records, err)
}

func (h *DataHandler) outOfStock(c *gin.Context) {
	records, err := h.store.OutOfStockInventory(c.Request.Context())
	h.respondInventoryList(c, records, err)
}

func (h *DataHandler) respondInventoryList(c *gin.Context, records []domain.Inventory, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	index := composer.IndexByID(products)
	for i := range records {
		if p, ok := index[records[i].ProductID]; ok {
			records[i].Product = &p
		}
	}
	c.JSON(http.StatusOK, records)
}

func (h *DataHandler) getInventory(c *gin.Context) {
	inv, err := h.store.GetInventory(c.Request.Context(), c.Param("id"))
	h.respondInventory(c, http.StatusOK, inv, err)
}

func (h *DataHandler) inventoryByProduct(c *gin.Context) {
	inv, err := h.store.GetInventoryByProduct(c.Request.Context(), c.Param("productId"))
	h.respondInventory(c, http.StatusOK, inv, err)
}

func (h *DataHandler) createInventory(c *gin.Context) {
	var inv domain.Inventory
	if err := c.ShouldBindJSON(&inv); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	created, err := h.store.CreateInventory(c.Request.Context(), inv)
	h.respondInventory(c, http.StatusCreated, created, err)
}

func (h *DataHandler) updateInventory(c *gin.Context) {
	var inv domain.Inventory
	if err := c.ShouldBindJSON(&inv); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	updated, err := h.store.UpdateInventory(c.Request.Context(), c.Param("id"), inv)
	h.respondInventory(c, http.StatusOK, updated, err)
}

func (h *DataHandler) updateQuantity(c *gin.Context) {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity < 0 {
		badRequest(c, "query parameter 'quantity' must be a non-negative integer")
		return
	}
	inv, err := h.store.UpdateInventoryQuantity(c.Request.Context(), c.Param("id"), quantity)
	h.respondInventory(c, http.StatusOK, inv, err)
}

func (h *DataHandler) deleteInventory(c *gin.Context) {
	if err := h.store.DeleteInventory(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DataHandler) respondInventory(c *gin.Context, status int, inv *domain.Inventory, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	inv.Product = h.snapshot(c.Request.Context(), inv.ProductID)
	c.JSON(status, inv)
}

// snapshot returns nil when the product is gone or cannot be read.
func (h *DataHandler) snapshot(ctx context.Context, productID string) *domain.Product {
	product, err := h.store.GetProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Warn("Failed to attach product snapshot",
				zap.String("product_id", productID),
				zap.Error(err))
		}
		return nil
	}
	return product
}
