package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// LeadPayload is the message forwarded to CRM and marketing integrations.
type LeadPayload struct {
	ContactID  string            `json:"contact_id"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	FirstName  string            `json:"first_name,omitempty"`
	LastName   string            `json:"last_name,omitempty"`
	Source     string            `json:"source,omitempty"`
	FormSlug   string            `json:"form_slug,omitempty"`
	Message    string            `json:"message,omitempty"`
	Values     map[string]string `json:"values,omitempty"`
	Interests  []string          `json:"interests,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	NewContact bool              `json:"new_contact"`
	SourceURL  string            `json:"source_url,omitempty"`
	IP         string            `json:"ip,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLead(ctx context.Context, payload LeadPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode lead payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}
	return nil
}

// InlineProducer forwards leads in a background goroutine when no broker is
// configured. Failures are logged and dropped.
type InlineProducer struct {
	Dispatcher *Dispatcher
	Timeout    time.Duration
	Logger     *zap.Logger
}

func NewInlineProducer(d *Dispatcher, logger *zap.Logger) *InlineProducer {
	return &InlineProducer{Dispatcher: d, Timeout: 30 * time.Second, Logger: logger}
}

func (p *InlineProducer) PublishLead(_ context.Context, payload LeadPayload) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
		defer cancel()
		if err := p.Dispatcher.Dispatch(ctx, payload); err != nil {
			p.Logger.Warn("inline lead forwarding failed",
				zap.String("contact_id", payload.ContactID),
				zap.Error(err),
			)
		}
	}()
	return nil
}
