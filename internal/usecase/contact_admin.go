package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// ContactAdmin backs the back-office contact screens.
type ContactAdmin struct {
	Contacts    entity.ContactRepositoryInterface
	Leads       entity.LeadRepositoryInterface
	Tags        entity.TagRepositoryInterface
	Interests   entity.InterestRepositoryInterface
	Submissions entity.SubmissionRepositoryInterface
	Logger      *zap.Logger
}

func NewContactAdmin(
	contacts entity.ContactRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	tags entity.TagRepositoryInterface,
	interests entity.InterestRepositoryInterface,
	submissions entity.SubmissionRepositoryInterface,
	logger *zap.Logger,
) *ContactAdmin {
	return &ContactAdmin{
		Contacts:    contacts,
		Leads:       leads,
		Tags:        tags,
		Interests:   interests,
		Submissions: submissions,
		Logger:      logger,
	}
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (a *ContactAdmin) List(ctx context.Context, f entity.ContactFilter) (*ContactPage, error) {
	if f.Status != "" && !entity.ValidStatus(f.Status) {
		return nil, &DomainError{Code: "INVALID_STATUS", Message: "unknown status " + f.Status}
	}
	f.Limit, f.Offset = pageBounds(f.Limit, f.Offset)

	contacts, total, err := a.Contacts.List(ctx, f)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list contacts", Err: err}
	}
	if contacts == nil {
		contacts = []*entity.Contact{}
	}
	return &ContactPage{Contacts: contacts, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Get loads a contact with its tags, interests and submissions.
func (a *ContactAdmin) Get(ctx context.Context, id string) (*ContactDetail, error) {
	c, err := a.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Tags, err = a.Tags.ListByContact(ctx, id); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load tags", Err: err}
	}
	if c.Interests, err = a.Interests.ListByContact(ctx, id); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load interests", Err: err}
	}
	subs, err := a.Submissions.ListByContact(ctx, id)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load submissions", Err: err}
	}
	return &ContactDetail{Contact: c, Submissions: subs}, nil
}

func (a *ContactAdmin) UpdateStatus(ctx context.Context, id, status, stage string) error {
	if status == "" && stage == "" {
		return &DomainError{Code: "VALIDATION_ERROR", Message: "status or stage is required"}
	}
	if status != "" && !entity.ValidStatus(status) {
		return &DomainError{Code: "INVALID_STATUS", Message: "unknown status " + status}
	}
	if stage != "" && !entity.ValidStage(stage) {
		return &DomainError{Code: "INVALID_STAGE", Message: "unknown stage " + stage}
	}
	err := a.Contacts.UpdateStatus(ctx, id, status, stage)
	if errors.Is(err, entity.ErrContactNotFound) {
		return &DomainError{Code: "CONTACT_NOT_FOUND", Message: "contact not found"}
	}
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to update contact", Err: err}
	}
	a.Logger.Info("contact status updated", zap.String("contact_id", id), zap.String("status", status), zap.String("stage", stage))
	return nil
}

func (a *ContactAdmin) AddTag(ctx context.Context, id, name string) (*entity.Tag, error) {
	if entity.Slugify(name) == "" {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "tag name is required"}
	}
	if _, err := a.find(ctx, id); err != nil {
		return nil, err
	}
	tag, err := a.Tags.Ensure(ctx, name)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to create tag", Err: err}
	}
	if err := a.Tags.Assign(ctx, id, tag.ID); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to assign tag", Err: err}
	}
	return tag, nil
}

func (a *ContactAdmin) RemoveTag(ctx context.Context, id, tagID string) error {
	if err := a.Tags.Unassign(ctx, id, tagID); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to remove tag", Err: err}
	}
	return nil
}

func (a *ContactAdmin) Delete(ctx context.Context, id string) error {
	err := a.Contacts.Delete(ctx, id)
	if errors.Is(err, entity.ErrContactNotFound) {
		return &DomainError{Code: "CONTACT_NOT_FOUND", Message: "contact not found"}
	}
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to delete contact", Err: err}
	}
	a.Logger.Info("contact deleted", zap.String("contact_id", id))
	return nil
}

func (a *ContactAdmin) ListLeads(ctx context.Context, limit, offset int) ([]*entity.Lead, int, error) {
	limit, offset = pageBounds(limit, offset)
	leads, total, err := a.Leads.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list leads", Err: err}
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads, total, nil
}

func (a *ContactAdmin) find(ctx context.Context, id string) (*entity.Contact, error) {
	c, err := a.Contacts.FindByID(ctx, id)
	if errors.Is(err, entity.ErrContactNotFound) {
		return nil, &DomainError{Code: "CONTACT_NOT_FOUND", Message: "contact not found"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load contact", Err: err}
	}
	return c, nil
}
