package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/notepad-service/internal/application/auth"
	"github.com/baechuer/notepad-service/internal/application/notes"
)

const (
	DefaultExchange = "notepad.events"

	RoutingUserRegistered = "user.registered"

	// Wait window for the broker confirm.
	publishWait = 2 * time.Second
)

// Publisher sends lifecycle events to a durable topic exchange with
// publisher confirms. It satisfies both auth.EventPublisher and
// notes.EventPublisher.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

// ---- auth.EventPublisher ----

func (p *Publisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return p.publishJSON(ctx, RoutingUserRegistered, evt)
}

// ---- notes.EventPublisher ----

func (p *Publisher) PublishNoteEvent(ctx context.Context, evt notes.NoteEvent) error {
	if evt.Type == "" {
		return errors.New("missing note event type")
	}
	return p.publishJSON(ctx, string(evt.Type), evt)
}

// ---- internal ----

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	return p.connect()
}

func buildPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}
	return amqp.Publishing{
		MessageId:    uuid.NewString(),
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	msg, err := buildPublishing(payload, time.Now())
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// Drop confirms left over from a publish that gave up waiting.
	drainConfirms(p.confirmCh)

	tag := p.ch.GetNextPublishSeqNo()

	// Not mandatory: nobody is required to consume note events.
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	conf, err := awaitConfirm(ctx, p.confirmCh, tag)
	if err != nil {
		// The late confirm would otherwise answer the next publish.
		p.resetConn()
		return fmt.Errorf("rabbitmq publish key=%s: %w", routingKey, err)
	}
	if !conf.Ack {
		return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
	}
	zlog.Debug().Str("routing_key", routingKey).Str("message_id", msg.MessageId).Msg("event published")
	return nil
}

func drainConfirms(confirms <-chan amqp.Confirmation) {
	for {
		select {
		case _, ok := <-confirms:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

var errChannelClosed = errors.New("channel closed before confirm")

// awaitConfirm waits for the confirm carrying tag, skipping older ones.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64) (amqp.Confirmation, error) {
	for {
		select {
		case conf, ok := <-confirms:
			if !ok {
				return amqp.Confirmation{}, errChannelClosed
			}
			if conf.DeliveryTag < tag {
				continue
			}
			return conf, nil
		case <-ctx.Done():
			return amqp.Confirmation{}, fmt.Errorf("confirm timeout: %w", ctx.Err())
		}
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
