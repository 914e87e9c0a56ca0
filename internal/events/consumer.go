package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StockUpdater is satisfied by service.InventoryService.
type StockUpdater interface {
	UpdateStock(ctx context.Context, productID string, quantity int) (*domain.InventoryView, error)
}

type Deduplicator interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// StockConsumer applies stock adjustments through the inventory
// orchestrator, so they are validated like API updates.
type StockConsumer struct {
	reader  messageReader
	updater StockUpdater
	dedup   Deduplicator
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewStockConsumer builds a consumer group reader. dedup may be nil.
func NewStockConsumer(brokers []string, topic, groupID string, updater StockUpdater, dedup Deduplicator, logger *zap.Logger) *StockConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return newStockConsumer(reader, updater, dedup, logger)
}

func newStockConsumer(reader messageReader, updater StockUpdater, dedup Deduplicator, logger *zap.Logger) *StockConsumer {
	return &StockConsumer{
		reader:  reader,
		updater: updater,
		dedup:   dedup,
		logger:  logger,
		tracer:  otel.Tracer("catalog-service/events"),
	}
}

// Run consumes until ctx is cancelled. A message is committed once it is
// applied or found unprocessable. Messages that failed on the data service
// are left uncommitted.
func (c *StockConsumer) Run(ctx context.Context) error {
	c.logger.Info("Kafka consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Kafka consumer stopped")
				return nil
			}
			c.logger.Error("Error reading message", zap.Error(err))
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.process(ctx, msg); err != nil {
			c.logger.Error("Error processing message",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			continue
		}

		// 메시지 처리 성공 시 커밋
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Error committing message", zap.Error(err))
		}
	}
}

func (c *StockConsumer) process(ctx context.Context, msg kafka.Message) (err error) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, headerCarrier{msg: &msg})
	ctx, span := c.tracer.Start(ctx, "stock-adjustment process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var adj StockAdjustment
	if err := json.Unmarshal(msg.Value, &adj); err != nil {
		c.logger.Warn("Skipping undecodable stock adjustment",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return nil
	}
	if strings.TrimSpace(adj.EventID) == "" || strings.TrimSpace(adj.ProductID) == "" {
		c.logger.Warn("Skipping stock adjustment without event or product id",
			zap.Int64("offset", msg.Offset))
		return nil
	}
	span.SetAttributes(attribute.String("product_id", adj.ProductID))

	if c.dedup != nil {
		first, err := c.dedup.FirstSeen(ctx, adj.EventID)
		if err != nil {
			// Redis 장애 시에도 처리는 계속
			c.logger.Warn("Duplicate check failed", zap.String("event_id", adj.EventID), zap.Error(err))
		} else if !first {
			c.logger.Info("Skipping duplicate stock adjustment", zap.String("event_id", adj.EventID))
			return nil
		}
	}

	c.logger.Info("Processing stock adjustment",
		zap.String("event_id", adj.EventID),
		zap.String("product_id", adj.ProductID),
		zap.Int("quantity", adj.Quantity),
		zap.String("request_id", adj.RequestID))

	if _, err := c.updater.UpdateStock(ctx, adj.ProductID, adj.Quantity); err != nil {
		if errors.Is(err, domain.ErrCommunication) {
			c.forget(ctx, adj.EventID)
			return fmt.Errorf("stock adjustment %s: %w", adj.EventID, err)
		}
		c.logger.Warn("Rejected stock adjustment",
			zap.String("event_id", adj.EventID),
			zap.String("product_id", adj.ProductID),
			zap.Error(err))
		return nil
	}
	return nil
}

func (c *StockConsumer) forget(ctx context.Context, eventID string) {
	if c.dedup == nil {
		return
	}
	if err := c.dedup.Forget(ctx, eventID); err != nil {
		c.logger.Warn("Failed to release duplicate marker", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (c *StockConsumer) Close() error {
	c.logger.Info("Stopping Kafka consumer")
	return c.reader.Close()
}
