package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/events"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/gateway"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/handler"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/service"
	"github.com/cloud-wave-best-zizon/catalog-service/pkg/config"
	"github.com/cloud-wave-best-zizon/catalog-service/pkg/observability"
	svidtls "github.com/cloud-wave-best-zizon/catalog-service/pkg/tls"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName    = "catalog-service"
	serviceVersion = "1.0.0"
)

func main() {
	// Config 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OpenTelemetry 초기화
	if cfg.OTelEnabled {
		shutdown, err := observability.SetupTracing(ctx, serviceName, serviceVersion, cfg.OTelEndpoint)
		if err != nil {
			logger.Fatal("Failed to setup tracing", zap.Error(err))
		}
		defer shutdown.Close(logger)
	} else {
		observability.SetupPropagation()
	}

	// 데이터 서비스 mTLS
	var clientTLS *tls.Config
	if cfg.TLSEnabled {
		source, err := svidtls.NewSource(ctx, cfg.SpireSocketPath, logger)
		if err != nil {
			logger.Fatal("Failed to create X509 source", zap.Error(err))
		}
		defer source.Close()
		go source.Watch(ctx, time.Minute)
		clientTLS = source.ClientConfig()
	}

	dataClient := gateway.NewClient(cfg.DataServiceURL, cfg.DataServiceTimeout, clientTLS)

	var publisher service.Publisher
	if cfg.KafkaEnabled {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.CatalogEventsTopic, logger)
		defer producer.Close()
		publisher = producer
	}

	// Service, Handler 초기화
	productService := service.NewProductService(dataClient, publisher, logger)
	categoryService := service.NewCategoryService(dataClient, logger)
	inventoryService := service.NewInventoryService(dataClient, publisher, logger)
	reportService := service.NewReportService(dataClient, logger)

	routes := handler.CatalogRoutes{
		Products:   handler.NewProductHandler(productService, logger),
		Categories: handler.NewCategoryHandler(categoryService, logger),
		Inventory:  handler.NewInventoryHandler(inventoryService, logger),
		Reports:    handler.NewReportHandler(reportService, productService, inventoryService, logger),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(routes, logger),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.KafkaEnabled {
		var dedup events.Deduplicator
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			dedup = events.NewRedisDeduplicator(rdb)
		}
		consumer := events.NewStockConsumer(cfg.KafkaBrokers, cfg.StockAdjustmentsTopic, cfg.KafkaGroupID, inventoryService, dedup, logger)
		defer consumer.Close()
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}

	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		return
	}
	logger.Info("Server exited")
}

// newRouter mounts the catalog API under /api/v1. CatalogRoutes.Register
// includes the health route.
func newRouter(routes handler.CatalogRoutes, logger *zap.Logger) *gin.Engine {
	// Gin Router 설정
	router := handler.NewRouter(logger, serviceName)
	routes.Register(router.Group("/api/v1"))
	return router
}
