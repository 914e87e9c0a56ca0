package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/gateway"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orchestrator carries what every entity service shares: the store, the
// logger and the optional event publisher.
type orchestrator struct {
	store     Store
	logger    *zap.Logger
	publisher Publisher
}

// translate maps a gateway outcome onto the domain error taxonomy.
// notFound may be nil for calls where absence is not expected (lists).
func (o *orchestrator) translate(op string, err, notFound error, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gateway.ErrNotFound) && notFound != nil:
		return fmt.Errorf("%w: %s", notFound, key)
	case errors.Is(err, gateway.ErrNotFound), errors.Is(err, gateway.ErrUnavailable):
		o.logger.Error("Data service call failed",
			zap.String("operation", op),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("%w (%s)", domain.ErrCommunication, op)
	default:
		return err
	}
}

// fetch runs a keyed store call and translates its outcome.
func fetch[K ~string, T any](ctx context.Context, o *orchestrator, op string, notFound error, call func(context.Context, K) (T, error), key K) (T, error) {
	v, err := call(ctx, key)
	if err != nil {
		var zero T
		return zero, o.translate(op, err, notFound, string(key))
	}
	return v, nil
}

// optional is fetch for references that may legitimately be absent: a
// missing entity yields nil instead of an error.
func optional[T any](ctx context.Context, o *orchestrator, op string, call func(context.Context, string) (*T, error), key string) (*T, error) {
	v, err := call(ctx, key)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, o.translate(op, err, nil, key)
	}
	return v, nil
}

func list[T any](ctx context.Context, o *orchestrator, op string, call func(context.Context) ([]T, error)) ([]T, error) {
	items, err := call(ctx)
	if err != nil {
		return nil, o.translate(op, err, nil, "")
	}
	return items, nil
}

func (o *orchestrator) notify(ctx context.Context, eventType domain.CatalogEventType, productID string, quantity, minimum int) {
	if o.publisher == nil {
		return
	}
	event := domain.CatalogEvent{
		EventID:         uuid.NewString(),
		Type:            eventType,
		ProductID:       productID,
		Quantity:        quantity,
		MinimumQuantity: minimum,
		Timestamp:       time.Now().UTC(),
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn("Failed to publish catalog event",
			zap.String("type", string(eventType)),
			zap.String("product_id", productID),
			zap.Error(err))
	}
}
