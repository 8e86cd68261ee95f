package entity

import (
	"context"
	"time"
)

type Interest struct {
	ContactID string    `json:"contact_id"`
	Key       string    `json:"key"`
	Weight    int       `json:"weight"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InterestCount struct {
	Key      string `json:"key"`
	Contacts int    `json:"contacts"`
	Weight   int    `json:"weight"`
}

type InterestRepositoryInterface interface {
	// Add increments the weight for (contactID, key), creating the row when
	// missing. The stored weight never drops below 1.
	Add(ctx context.Context, contactID, key string, delta int) (int, error)
	ListByContact(ctx context.Context, contactID string) ([]Interest, error)
	Top(ctx context.Context, limit int) ([]InterestCount, error)
}
