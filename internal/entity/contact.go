package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ContactStatusNew        = "new"
	ContactStatusActive     = "active"
	ContactStatusCustomer   = "customer"
	ContactStatusArchived   = "archived"
	ContactStageLead        = "lead"
	ContactStageQualified   = "qualified"
	ContactStageOpportunity = "opportunity"
	ContactStageWon         = "won"
	ContactStageLost        = "lost"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrMissingIdentity = errors.New("email or phone is required")
	ErrInvalidStatus   = errors.New("invalid contact status")
	ErrInvalidStage    = errors.New("invalid contact stage")
)

// Contact is a captured visitor. Email and phone are the identity keys.
type Contact struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tags      []Tag      `json:"tags,omitempty"`
	Interests []Interest `json:"interests,omitempty"`
}

func NewContact(email, phone, firstName, lastName, source string) (*Contact, error) {
	c := &Contact{
		ID:        uuid.New().String(),
		Email:     NormalizeEmail(email),
		Phone:     NormalizePhone(phone),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Status:    ContactStatusNew,
		Stage:     ContactStageLead,
		Source:    strings.TrimSpace(source),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Contact) Validate() error {
	if c.Email == "" && c.Phone == "" {
		return ErrMissingIdentity
	}
	if c.Status != "" && !ValidStatus(c.Status) {
		return ErrInvalidStatus
	}
	if c.Stage != "" && !ValidStage(c.Stage) {
		return ErrInvalidStage
	}
	return nil
}

func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func ValidStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusActive, ContactStatusCustomer, ContactStatusArchived:
		return true
	}
	return false
}

func ValidStage(s string) bool {
	switch s {
	case ContactStageLead, ContactStageQualified, ContactStageOpportunity, ContactStageWon, ContactStageLost:
		return true
	}
	return false
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps digits and a leading plus sign.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.String() == "+" {
		return ""
	}
	return b.String()
}

type ContactFilter struct {
	Search string
	Status string
	Stage  string
	Since  *time.Time
	Limit  int
	Offset int
}

type ContactRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Contact, error)
	FindByEmail(ctx context.Context, email string) (*Contact, error)
	FindByPhone(ctx context.Context, phone string) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
	Update(ctx context.Context, c *Contact) error
	UpsertByEmailOrPhone(ctx context.Context, c *Contact) (bool, error)
	UpdateStatus(ctx context.Context, id, status, stage string) error
	List(ctx context.Context, f ContactFilter) ([]*Contact, int, error)
	Delete(ctx context.Context, id string) error
}

// Merge copies the non-empty identity and profile fields of in onto c.
func (c *Contact) Merge(in *Contact) {
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
	if in.FirstName != "" {
		c.FirstName = in.FirstName
	}
	if in.LastName != "" {
		c.LastName = in.LastName
	}
	if c.Source == "" {
		c.Source = in.Source
	}
	c.UpdatedAt = time.Now()
}
