package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogRoutes groups the handlers of the business API.
type CatalogRoutes struct {
	Products   *ProductHandler
	Categories *CategoryHandler
	Inventory  *InventoryHandler
	Reports    *ReportHandler
}

func (r CatalogRoutes) Register(v1 *gin.RouterGroup) {
	products := v1.Group("/products")
	{
		products.GET("", r.Products.ListProducts)
		products.POST("", r.Products.CreateProduct)
		products.GET("/search", r.Products.SearchProducts)
		products.GET("/price", r.Products.ProductsByPriceRange)
		products.GET("/category/:name", r.Products.ProductsByCategory)
		products.GET("/:id", r.Products.GetProduct)
		products.PUT("/:id", r.Products.UpdateProduct)
		products.DELETE("/:id", r.Products.DeleteProduct)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", r.Categories.ListCategories)
		categories.POST("", r.Categories.CreateCategory)
		categories.GET("/name/:name", r.Categories.GetCategoryByName)
		categories.GET("/:id", r.Categories.GetCategory)
		categories.PUT("/:id", r.Categories.UpdateCategory)
		categories.DELETE("/:id", r.Categories.DeleteCategory)
		categories.GET("/:id/products", r.Categories.CategoryProducts)
	}

	inventory := v1.Group("/inventory")
	{
		inventory.GET("", r.Inventory.ListInventory)
		inventory.POST("", r.Inventory.CreateInventory)
		inventory.GET("/low-stock", r.Inventory.LowStock)
		inventory.GET("/out-of-stock", r.Inventory.OutOfStock)
		inventory.GET("/product/:productId", r.Inventory.GetInventoryByProduct)
		inventory.PUT("/product/:productId/stock", r.Inventory.UpdateStock)
		inventory.GET("/:id", r.Inventory.GetInventory)
		inventory.PUT("/:id", r.Inventory.UpdateInventory)
		inventory.DELETE("/:id", r.Inventory.DeleteInventory)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/low-stock", r.Reports.LowStockProducts)
		reports.GET("/out-of-stock", r.Reports.OutOfStockProducts)
		reports.GET("/valuation", r.Reports.TotalValuation)
		reports.GET("/inventory", r.Reports.InventoryReport)
	}

	v1.GET("/health", Health)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
