package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

type QueueProducerInterface interface {
	PublishLead(ctx context.Context, payload queue.LeadPayload) error
}

type EmailService interface {
	SendNewLead(n LeadNotification) error
}

type LeadNotification struct {
	Name      string
	Email     string
	Phone     string
	Source    string
	Form      string
	Values    map[string]string
	ContactID string
}

// ContactIterator streams contacts for exports.
type ContactIterator interface {
	Each(ctx context.Context, since time.Time, fn func(*entity.Contact) error) error
}

// CacheStore is an expiring key/value store.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

type CarrierSource interface {
	All() []entity.Carrier
}
