// Package service publishes reservation events to RabbitMQ.  Publishing is
// best effort: errors are logged and returned so callers can ignore them
// without interrupting the request.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
	q "github.com/vjcatalan74/reservas-ciclo-backend/internal/queue"
)

const (
	dialTimeout      = 2 * time.Second
	reconnectBackoff = 5 * time.Second
)

// ErrBrokerUnavailable is returned while the publisher waits out the
// backoff after a failed reconnect.
var ErrBrokerUnavailable = errors.New("rabbitmq unavailable")

// Publisher holds one connection and channel to the broker and publishes
// persistent JSON messages on a topic exchange.  A broken channel is
// reopened on the next publish, at most once per reconnectBackoff, so a
// dead broker costs requests one short dial rather than one each.
type Publisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
	now     func() time.Time
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange, now: time.Now}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	// Durable so the exchange survives broker restarts.
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

// PublishReservation emits a reservation event for res under key, one of
// queue.KeyReservationCreated or queue.KeyReservationCancelled.  class may
// be nil when the reservation references a class that no longer exists.
func (p *Publisher) PublishReservation(ctx context.Context, key string, res model.Reservation, class *model.ClassTemplate) error {
	ev := q.ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          key,
		ReservationID: res.ID,
		ClassID:       res.ClassID,
		UserName:      res.UserName,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if class != nil {
		ev.ClassDay, ev.ClassTime = class.Day, class.Time.String()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("events: marshal %s failed: %v", key, err)
		return err
	}
	if err := p.publish(ctx, key, ev.EventID, body); err != nil {
		log.Printf("events: publish %s failed: %v", key, err)
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, key, id string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if p.now().Before(p.retryAt) {
			return ErrBrokerUnavailable
		}
		if p.conn != nil {
			_ = p.conn.Close()
			p.conn, p.ch = nil, nil
		}
		if err := p.connect(); err != nil {
			p.retryAt = p.now().Add(reconnectBackoff)
			return err
		}
	}
	return p.ch.PublishWithContext(ctx,
		p.exchange, // topic exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // store on disk
			MessageId:    id,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
