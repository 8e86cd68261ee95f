package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

// CaptureLeadUseCase stores a legacy lead row and resolves it to a contact.
type CaptureLeadUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Contacts  entity.ContactRepositoryInterface
	Interests *InterestUpdater
	Queue     QueueProducerInterface
	Email     EmailService
	Logger    *zap.Logger
}

func NewCaptureLeadUseCase(
	leads entity.LeadRepositoryInterface,
	contacts entity.ContactRepositoryInterface,
	interests *InterestUpdater,
	queue QueueProducerInterface,
	email EmailService,
	logger *zap.Logger,
) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{
		Leads:     leads,
		Contacts:  contacts,
		Interests: interests,
		Queue:     queue,
		Email:     email,
		Logger:    logger,
	}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		return nil, newValidationError([]ValidationError{{Field: "phone", Message: "invalid phone number"}})
	}

	source := input.Source
	if source == "" {
		source = "lead"
	}
	lead, err := entity.NewLead(input.Name, input.Email, input.Phone, input.Message, source)
	if errors.Is(err, entity.ErrMissingIdentity) {
		return nil, &DomainError{Code: "MISSING_IDENTITY", Message: "email or phone is required"}
	}
	if err != nil {
		return nil, err
	}

	first, last := entity.SplitName(lead.Name)
	contact, err := entity.NewContact(lead.Email, lead.Phone, first, last, lead.Source)
	if err != nil {
		return nil, &DomainError{Code: "MISSING_IDENTITY", Message: err.Error()}
	}

	created, err := uc.Contacts.UpsertByEmailOrPhone(ctx, contact)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to save contact", Err: err}
	}

	lead.ContactID = contact.ID
	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to save lead", Err: err}
	}

	log := uc.Logger.With(zap.String("lead_id", lead.ID), zap.String("contact_id", contact.ID))

	var interests []string
	if uc.Interests != nil {
		interests, err = uc.Interests.Apply(ctx, contact.ID, lead.Message)
		if err != nil {
			log.Warn("failed to update interests", zap.Error(err))
		}
	}

	if uc.Queue != nil {
		payload := queue.LeadPayload{
			ContactID:  contact.ID,
			Email:      contact.Email,
			Phone:      contact.Phone,
			FirstName:  contact.FirstName,
			LastName:   contact.LastName,
			Source:     lead.Source,
			Message:    lead.Message,
			Interests:  interests,
			NewContact: created,
			OccurredAt: time.Now(),
		}
		if err := uc.Queue.PublishLead(ctx, payload); err != nil {
			log.Error("lead stored but forwarding failed", zap.Error(err))
		}
	}

	if created && uc.Email != nil {
		n := LeadNotification{
			Name:      lead.Name,
			Email:     lead.Email,
			Phone:     lead.Phone,
			Source:    lead.Source,
			Values:    map[string]string{"message": lead.Message},
			ContactID: contact.ID,
		}
		go func() {
			if err := uc.Email.SendNewLead(n); err != nil {
				log.Warn("failed to send lead notification", zap.Error(err))
			}
		}()
	}

	log.Info("lead captured", zap.Bool("new_contact", created))
	return &CaptureLeadOutput{LeadID: lead.ID, ContactID: contact.ID, NewContact: created}, nil
}
