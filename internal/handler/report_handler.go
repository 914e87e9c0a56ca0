package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService    *service.ReportService
	productService   *service.ProductService
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewReportHandler(reports *service.ReportService, products *service.ProductService, inventory *service.InventoryService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService:    reports,
		productService:   products,
		inventoryService: inventory,
		logger:           logger,
	}
}

func (h *ReportHandler) LowStockProducts(c *gin.Context) {
	products, err := h.productService.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ReportHandler) OutOfStockProducts(c *gin.Context) {
	products, err := h.inventoryService.OutOfStockProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ReportHandler) TotalValuation(c *gin.Context) {
	total, err := h.reportService.TotalValuation(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_valuation": total})
}

func (h *ReportHandler) InventoryReport(c *gin.Context) {
	report, err := h.reportService.InventoryReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
