package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is the raw capture row kept alongside the contact it resolved to.
type Lead struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLead(name, email, phone, message, source string) (*Lead, error) {
	l := &Lead{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Phone:     NormalizePhone(phone),
		Message:   strings.TrimSpace(message),
		Source:    strings.TrimSpace(source),
		CreatedAt: time.Now(),
	}
	if l.Email == "" && l.Phone == "" {
		return nil, ErrMissingIdentity
	}
	return l, nil
}

// SplitName splits a free-form name into first and last name.
func SplitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	List(ctx context.Context, limit, offset int) ([]*Lead, int, error)
}
