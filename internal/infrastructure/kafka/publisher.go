package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// ErrQueueFull la cola local está llena; el evento se descarta.
var ErrQueueFull = errors.New("kafka: cola de eventos llena")

// ErrClosed el publisher ya fue cerrado.
var ErrClosed = errors.New("kafka: publisher cerrado")

// Writer lo que el publisher necesita de *kafka.Writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope sobre JSON de cada mensaje.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Publisher encola eventos y los escribe en segundo plano detrás de un circuit breaker.
type Publisher struct {
	w        Writer
	cb       *gobreaker.CircuitBreaker[struct{}]
	producer string
	inbox    chan kafka.Message
	done     chan struct{}
	log      zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewWriter crea el writer de kafka-go para los brokers y el tópico.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewPublisher arranca la goroutine de escritura. Llamar Close al apagar.
func NewPublisher(w Writer, producer string, buf int, log zerolog.Logger) *Publisher {
	p := &Publisher{
		w:        w,
		producer: producer,
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
		log:      log,
	}
	p.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "kafka-" + producer,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker")
		},
	})
	go p.loop()
	return p
}

// Publish serializa el evento y lo encola sin bloquear. La clave del mensaje es el vendedor.
func (p *Publisher) Publish(_ context.Context, ev ports.OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	env, err := json.Marshal(Envelope{
		EventID:       uuid.New().String(),
		EventType:     ev.Type,
		EventVersion:  1,
		OccurredAt:    ev.OccurredAt,
		Producer:      p.producer,
		CorrelationID: ev.OrderID,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	msg := kafka.Message{
		Key:     []byte(ev.SellerID),
		Value:   env,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(ev.Type)}},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Publisher) loop() {
	defer close(p.done)
	for m := range p.inbox {
		_, err := p.cb.Execute(func() (struct{}, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return struct{}{}, p.w.WriteMessages(ctx, m)
		})
		if err != nil {
			p.log.Error().Err(err).Str("key", string(m.Key)).Msg("escribir evento en kafka")
		}
	}
}

// Close deja de aceptar eventos, vacía la cola y cierra el writer.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.inbox)
	p.mu.Unlock()

	<-p.done
	return p.w.Close()
}
