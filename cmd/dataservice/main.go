package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/handler"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/repository"
	"github.com/cloud-wave-best-zizon/catalog-service/pkg/config"
	"github.com/cloud-wave-best-zizon/catalog-service/pkg/observability"
	svidtls "github.com/cloud-wave-best-zizon/catalog-service/pkg/tls"
	"go.uber.org/zap"
)

const (
	serviceName    = "catalog-data-service"
	serviceVersion = "1.0.0"
)

func main() {
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

	if cfg.OTelEnabled {
		shutdown, err := observability.SetupTracing(ctx, serviceName, serviceVersion, cfg.OTelEndpoint)
		if err != nil {
			logger.Fatal("Failed to setup tracing", zap.Error(err))
		}
		defer shutdown.Close(logger)
	} else {
		observability.SetupPropagation()
	}

	var store repository.Store
	if cfg.LocalMode {
		logger.Info("Using in-memory store")
		store = repository.NewMemoryStore()
	} else {
		// DynamoDB 클라이언트 초기화
		dynamoClient, err := repository.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to create DynamoDB client", zap.Error(err))
		}
		store = repository.NewDynamoStore(dynamoClient, repository.Tables{
			Products:   cfg.ProductTableName,
			Categories: cfg.CategoryTableName,
			Inventory:  cfg.InventoryTableName,
		})
	}

	router := handler.NewRouter(logger, serviceName)

	handler.NewDataHandler(store, logger).Register(router.Group("/data"))
	router.GET("/health", handler.Health)

	srv := &http.Server{
		Addr:    ":" + cfg.DataServicePort,
		Handler: router,
	}

	if cfg.TLSEnabled {
		source, err := svidtls.NewSource(ctx, cfg.SpireSocketPath, logger)
		if err != nil {
			logger.Fatal("Failed to create X509 source", zap.Error(err))
		}
		defer source.Close()
		go source.Watch(ctx, time.Minute)
		srv.TLSConfig = source.ServerConfig()
	}

	go func() {
		logger.Info("Starting data service",
			zap.String("port", cfg.DataServicePort),
			zap.Bool("tls", cfg.TLSEnabled),
			zap.Bool("local_mode", cfg.LocalMode))
		var err error
		if srv.TLSConfig != nil {
			// 인증서는 TLSConfig의 SVID 소스에서 제공
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
