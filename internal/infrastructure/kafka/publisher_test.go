package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	calls  int
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestPublisher_EscribeSobre(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w, "pedidos-api", 8, zerolog.Nop())

	ev := ports.OrderEvent{
		Type: ports.EventOrderCreated, OrderID: "o1", SellerID: "s1",
		Total: decimal.NewFromInt(30), OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, p.Close())

	require.Len(t, w.msgs, 1)
	assert.True(t, w.closed)
	assert.Equal(t, "s1", string(w.msgs[0].Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	assert.Equal(t, ports.EventOrderCreated, env.EventType)
	assert.Equal(t, "o1", env.CorrelationID)
	assert.Equal(t, "pedidos-api", env.Producer)
	assert.NotEmpty(t, env.EventID)

	var payload ports.OrderEvent
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.True(t, decimal.NewFromInt(30).Equal(payload.Total))

	assert.ErrorIs(t, p.Publish(context.Background(), ev), ErrClosed)
}

func TestPublisher_BreakerAbreTrasFallas(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := NewPublisher(w, "pedidos-api", 16, zerolog.Nop())

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Publish(context.Background(), ports.OrderEvent{Type: ports.EventOrderUpdated, SellerID: "s1"}))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, 5, w.calls, "con el breaker abierto no se intenta escribir")
}

func TestPublisher_ColaLlena(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	p := NewPublisher(w, "pedidos-api", 1, zerolog.Nop())

	ev := ports.OrderEvent{Type: ports.EventOrderDeleted, SellerID: "s1"}
	var full bool
	for i := 0; i < 5 && !full; i++ {
		full = errors.Is(p.Publish(context.Background(), ev), ErrQueueFull)
	}
	assert.True(t, full)
	close(w.release)
	require.NoError(t, p.Close())
}

type blockingWriter struct {
	release chan struct{}
}

func (w *blockingWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	select {
	case <-w.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *blockingWriter) Close() error { return nil }
