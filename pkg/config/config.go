package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is shared by the catalog and data service binaries.
type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	DataServicePort string `envconfig:"DATA_SERVICE_PORT" default:"8081"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	LocalMode       bool   `envconfig:"LOCAL_MODE" default:"true"` // in-memory store instead of DynamoDB

	AWSRegion          string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	DynamoDBEndpoint   string `envconfig:"DYNAMODB_ENDPOINT"`
	ProductTableName   string `envconfig:"PRODUCT_TABLE_NAME" default:"products-table"`
	CategoryTableName  string `envconfig:"CATEGORY_TABLE_NAME" default:"categories-table"`
	InventoryTableName string `envconfig:"INVENTORY_TABLE_NAME" default:"inventory-table"`

	DataServiceURL     string        `envconfig:"DATA_SERVICE_URL" default:"http://localhost:8081"`
	DataServiceTimeout time.Duration `envconfig:"DATA_SERVICE_TIMEOUT" default:"5s"`

	KafkaEnabled          bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	KafkaBrokers          []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	CatalogEventsTopic    string   `envconfig:"CATALOG_EVENTS_TOPIC" default:"catalog-events"`
	StockAdjustmentsTopic string   `envconfig:"STOCK_ADJUSTMENTS_TOPIC" default:"stock-adjustments"`
	KafkaGroupID          string   `envconfig:"KAFKA_GROUP_ID" default:"catalog-service"`

	// Empty disables duplicate detection for stock adjustments.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	OTelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint string `envconfig:"OTEL_ENDPOINT" default:"localhost:4318"`

	TLSEnabled      bool   `envconfig:"TLS_ENABLED" default:"false"`
	SpireSocketPath string `envconfig:"SPIRE_SOCKET_PATH" default:"unix:///run/spire/sockets/agent.sock"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewLogger builds a production logger, or a development one for LOG_LEVEL=debug.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
