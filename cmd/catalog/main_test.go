package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/gateway"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/handler"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func testRoutes() handler.CatalogRoutes {
	logger := zap.NewNop()
	client := gateway.NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	products := service.NewProductService(client, nil, logger)
	categories := service.NewCategoryService(client, logger)
	inventory := service.NewInventoryService(client, nil, logger)
	reports := service.NewReportService(client, logger)
	return handler.CatalogRoutes{
		Products:   handler.NewProductHandler(products, logger),
		Categories: handler.NewCategoryHandler(categories, logger),
		Inventory:  handler.NewInventoryHandler(inventory, logger),
		Reports:    handler.NewReportHandler(reports, products, inventory, logger),
	}
}

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var router *gin.Engine
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("router setup panicked: %v", r)
			}
		}()
		router = newRouter(testRoutes(), zap.NewNop())
	}()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}

	// no data service behind the gateway
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
	var body handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Service Unavailable" || body.Path != "/api/v1/categories" {
		t.Errorf("unexpected error body %+v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}
