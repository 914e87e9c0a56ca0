package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader hands out queued messages, then reports io.EOF as a closed
// kafka reader does.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if len(r.queue) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type fakeUpdater struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (u *fakeUpdater) UpdateStock(ctx context.Context, productID string, quantity int) (*domain.InventoryView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.calls == nil {
		u.calls = make(map[string]int)
	}
	u.calls[productID] = quantity
	if u.err != nil {
		return nil, u.err
	}
	return &domain.InventoryView{ProductID: productID, Quantity: quantity}, nil
}

type memoryDedup struct {
	mu        sync.Mutex
	seen      map[string]bool
	forgotten []string
}

func (d *memoryDedup) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[eventID] {
		return false, nil
	}
	d.seen[eventID] = true
	return true, nil
}

func (d *memoryDedup) Forget(ctx context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, eventID)
	d.forgotten = append(d.forgotten, eventID)
	return nil
}

func adjustment(t *testing.T, offset int64, eventID, productID string, quantity int) kafka.Message {
	t.Helper()
	value, err := json.Marshal(StockAdjustment{EventID: eventID, ProductID: productID, Quantity: quantity})
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{Topic: "stock-adjustments", Offset: offset, Value: value}
}

func TestKafkaProducer_Publish(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	writer := &fakeWriter{}
	producer := &KafkaProducer{writer: writer, logger: zap.NewNop()}

	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	event := domain.CatalogEvent{EventID: "e-1", Type: domain.EventLowStock, ProductID: "p-1", Quantity: 2, MinimumQuantity: 10}
	if err := producer.Publish(ctx, event); err != nil {
		t.Fatal(err)
	}
	span.End()

	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "p-1" {
		t.Errorf("expected product id key, got %q", msg.Key)
	}
	carrier := headerCarrier{msg: &msg}
	if carrier.Get("event_type") != string(domain.EventLowStock) {
		t.Errorf("expected event type header, got %v", msg.Headers)
	}
	if carrier.Get("traceparent") == "" {
		t.Errorf("expected trace context header, got %v", carrier.Keys())
	}

	var decoded domain.CatalogEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Type != domain.EventLowStock || decoded.Quantity != 2 {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

func TestKafkaProducer_PublishError(t *testing.T) {
	producer := &KafkaProducer{writer: &fakeWriter{err: errors.New("no brokers")}, logger: zap.NewNop()}
	if err := producer.Publish(context.Background(), domain.CatalogEvent{EventID: "e-1"}); err == nil {
		t.Error("expected the write error to be returned")
	}
}

func TestStockConsumer_AppliesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		adjustment(t, 1, "e-1", "p-1", 7),
		{Topic: "stock-adjustments", Offset: 2, Value: []byte("not json")},
		adjustment(t, 3, "", "p-2", 1),
	}}
	updater := &fakeUpdater{}
	consumer := newStockConsumer(reader, updater, nil, zap.NewNop())

	if err := consumer.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected the reader error to end the loop, got %v", err)
	}
	if updater.calls["p-1"] != 7 || len(updater.calls) != 1 {
		t.Errorf("unexpected updates %v", updater.calls)
	}
	if len(reader.committed) != 3 {
		t.Errorf("applied and unprocessable messages must be committed, got %v", reader.committed)
	}
}

func TestStockConsumer_SkipsDuplicates(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		adjustment(t, 1, "e-1", "p-1", 7),
		adjustment(t, 2, "e-1", "p-1", 99),
	}}
	updater := &fakeUpdater{}
	dedup := &memoryDedup{seen: map[string]bool{}}
	consumer := newStockConsumer(reader, updater, dedup, zap.NewNop())

	consumer.Run(context.Background())

	if updater.calls["p-1"] != 7 {
		t.Errorf("duplicate must not be applied, stock set to %d", updater.calls["p-1"])
	}
	if len(reader.committed) != 2 {
		t.Errorf("duplicates are committed, got %v", reader.committed)
	}
}

func TestStockConsumer_CommunicationFailureLeavesMessage(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{adjustment(t, 5, "e-9", "p-1", 3)}}
	updater := &fakeUpdater{err: fmt.Errorf("%w (UpdateInventoryQuantity)", domain.ErrCommunication)}
	dedup := &memoryDedup{seen: map[string]bool{}}
	consumer := newStockConsumer(reader, updater, dedup, zap.NewNop())

	consumer.Run(context.Background())

	if len(reader.committed) != 0 {
		t.Errorf("failed message must not be committed, got %v", reader.committed)
	}
	if len(dedup.forgotten) != 1 || dedup.seen["e-9"] {
		t.Errorf("duplicate marker must be released, got %+v", dedup)
	}
}

func TestStockConsumer_RejectedAdjustmentIsCommitted(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{adjustment(t, 1, "e-1", "p-1", -4)}}
	updater := &fakeUpdater{err: domain.Invalid("stock cannot be negative")}
	consumer := newStockConsumer(reader, updater, nil, zap.NewNop())

	consumer.Run(context.Background())

	if len(reader.committed) != 1 {
		t.Errorf("rejected adjustment must be committed, got %v", reader.committed)
	}
}

func TestStockConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	consumer := newStockConsumer(&fakeReader{}, &fakeUpdater{}, nil, zap.NewNop())

	if err := consumer.Run(ctx); err != nil {
		t.Errorf("expected a clean stop, got %v", err)
	}
}

func TestRedisDeduplicator_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	dedup := NewRedisDeduplicator(client)

	if _, err := dedup.FirstSeen(context.Background(), "e-1"); err == nil {
		t.Error("expected an error without a redis server")
	}
}

func TestStockConsumer_LogsRequestID(t *testing.T) {
	value, err := json.Marshal(StockAdjustment{EventID: "e-1", ProductID: "p-1", Quantity: 4, RequestID: "req-42"})
	if err != nil {
		t.Fatal(err)
	}
	reader := &fakeReader{queue: []kafka.Message{{Topic: "stock-adjustments", Offset: 1, Value: value}}}
	core, logs := observer.New(zapcore.InfoLevel)
	consumer := newStockConsumer(reader, &fakeUpdater{}, nil, zap.New(core))

	consumer.Run(context.Background())

	entries := logs.FilterMessage("Processing stock adjustment").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("expected one processing entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-42" {
		t.Errorf("expected request id req-42, got %v", got)
	}
}
