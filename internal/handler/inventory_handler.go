package handler

import (
	"net/http"
	"strconv"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

func (h *InventoryHandler) ListInventory(c *gin.Context) {
	records, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *InventoryHandler) GetInventory(c *gin.Context) {
	record, err := h.inventoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *InventoryHandler) GetInventoryByProduct(c *gin.Context) {
	record, err := h.inventoryService.GetByProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	records, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *InventoryHandler) OutOfStock(c *gin.Context) {
	records, err := h.inventoryService.OutOfStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *InventoryHandler) CreateInventory(c *gin.Context) {
	var req domain.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		badRequest(c, "Invalid request format")
		return
	}

	record, err := h.inventoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	var req domain.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		badRequest(c, "Invalid request format")
		return
	}

	record, err := h.inventoryService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *InventoryHandler) DeleteInventory(c *gin.Context) {
	if err := h.inventoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateStock handles PUT /inventory/product/:productId/stock?quantity=N.
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		badRequest(c, "query parameter 'quantity' must be an integer")
		return
	}

	record, err := h.inventoryService.UpdateStock(c.Request.Context(), c.Param("productId"), quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
