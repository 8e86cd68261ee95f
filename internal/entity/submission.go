package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FormSubmission struct {
	ID        string            `json:"id"`
	FormID    string            `json:"form_id"`
	ContactID string            `json:"contact_id"`
	Values    map[string]string `json:"values"`
	SourceURL string            `json:"source_url,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewFormSubmission(formID, contactID string, values map[string]string) *FormSubmission {
	return &FormSubmission{
		ID:        uuid.New().String(),
		FormID:    formID,
		ContactID: contactID,
		Values:    values,
		CreatedAt: time.Now(),
	}
}

type SubmissionRepositoryInterface interface {
	Create(ctx context.Context, s *FormSubmission) error
	ListByContact(ctx context.Context, contactID string) ([]*FormSubmission, error)
}
