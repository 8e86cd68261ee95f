package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

type SubmitFormUseCase struct {
	Resolver    *FormSchemaResolver
	Contacts    entity.ContactRepositoryInterface
	Submissions entity.SubmissionRepositoryInterface
	Tags        entity.TagRepositoryInterface
	Interests   *InterestUpdater
	Queue       QueueProducerInterface
	Email       EmailService
	Logger      *zap.Logger
}

func NewSubmitFormUseCase(
	resolver *FormSchemaResolver,
	contacts entity.ContactRepositoryInterface,
	submissions entity.SubmissionRepositoryInterface,
	tags entity.TagRepositoryInterface,
	interests *InterestUpdater,
	queue QueueProducerInterface,
	email EmailService,
	logger *zap.Logger,
) *SubmitFormUseCase {
	return &SubmitFormUseCase{
		Resolver:    resolver,
		Contacts:    contacts,
		Submissions: submissions,
		Tags:        tags,
		Interests:   interests,
		Queue:       queue,
		Email:       email,
		Logger:      logger,
	}
}

func (uc *SubmitFormUseCase) Execute(ctx context.Context, input SubmitFormInput) (*SubmitFormOutput, error) {
	form, err := uc.Resolver.Resolve(ctx, input.Slug, input.Category, input.Variant)
	if errors.Is(err, entity.ErrFormNotFound) {
		return nil, &DomainError{Code: "FORM_NOT_FOUND", Message: "form not found"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load form", Err: err}
	}
	if form.Status != entity.FormStatusActive {
		return nil, &DomainError{Code: "FORM_DISABLED", Message: "form is not accepting submissions"}
	}

	values, verrs := ValidateSubmission(form.Fields, input.Values)
	if len(verrs) > 0 {
		return nil, newValidationError(verrs)
	}

	contact := contactFromValues(form.Fields, values)
	contact.Source = "form:" + form.Slug
	if err := contact.Validate(); err != nil {
		return nil, &DomainError{Code: "MISSING_IDENTITY", Message: "an email or phone field is required"}
	}

	submission := entity.NewFormSubmission(form.ID, "", values)
	submission.SourceURL = input.SourceURL
	submission.IP = input.IP
	submission.UserAgent = input.UserAgent

	var created bool
	txn := NewTransaction()
	txn.OnCompensationError(func(name string, err error) {
		uc.Logger.Error("compensation failed", zap.String("step", name), zap.Error(err))
	})
	txn.AddOperation("upsert_contact",
		func(ctx context.Context) error {
			var err error
			created, err = uc.Contacts.UpsertByEmailOrPhone(ctx, contact)
			return err
		},
		func(ctx context.Context) error {
			if !created {
				return nil
			}
			return uc.Contacts.Delete(ctx, contact.ID)
		},
	)
	txn.AddOperation("create_submission",
		func(ctx context.Context) error {
			submission.ContactID = contact.ID
			return uc.Submissions.Create(ctx, submission)
		},
		nil,
	)

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist submission", Err: err}
	}

	interests := uc.afterSubmit(ctx, form, contact, values, created, input)

	return &SubmitFormOutput{
		ContactID:    contact.ID,
		SubmissionID: submission.ID,
		NewContact:   created,
		Interests:    interests,
		Msg:          "Thank you, your request has been received.",
	}, nil
}

// afterSubmit runs the best-effort side effects. Failures are logged; the
// submission itself is already stored.
func (uc *SubmitFormUseCase) afterSubmit(ctx context.Context, form *entity.Form, contact *entity.Contact, values map[string]string, created bool, input SubmitFormInput) []string {
	log := uc.Logger.With(zap.String("contact_id", contact.ID), zap.String("form", form.Slug))

	for _, name := range form.DefaultTags {
		tag, err := uc.Tags.Ensure(ctx, name)
		if err == nil {
			err = uc.Tags.Assign(ctx, contact.ID, tag.ID)
		}
		if err != nil {
			log.Warn("failed to apply default tag", zap.String("tag", name), zap.Error(err))
		}
	}

	var interests []string
	if uc.Interests != nil {
		var err error
		interests, err = uc.Interests.Apply(ctx, contact.ID, submissionText(form.Fields, values))
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
			Source:     contact.Source,
			FormSlug:   form.Slug,
			Message:    values["message"],
			Values:     values,
			Interests:  interests,
			Tags:       form.DefaultTags,
			NewContact: created,
			SourceURL:  input.SourceURL,
			IP:         input.IP,
			UserAgent:  input.UserAgent,
			OccurredAt: time.Now(),
		}
		if err := uc.Queue.PublishLead(ctx, payload); err != nil {
			log.Error("submission stored but forwarding failed", zap.Error(err))
		}
	}

	if created && uc.Email != nil {
		n := LeadNotification{
			Name:      contact.FullName(),
			Email:     contact.Email,
			Phone:     contact.Phone,
			Source:    contact.Source,
			Form:      form.Title,
			Values:    values,
			ContactID: contact.ID,
		}
		go func() {
			if err := uc.Email.SendNewLead(n); err != nil {
				log.Warn("failed to send lead notification", zap.Error(err))
			}
		}()
	}

	log.Info("form submitted", zap.Bool("new_contact", created), zap.Strings("interests", interests))
	return interests
}

// contactFromValues maps well-known fields onto a contact. Fields are found
// by type first, then by conventional name.
func contactFromValues(fields []entity.FormField, values map[string]string) *entity.Contact {
	c := &entity.Contact{ID: uuid.New().String(), Status: entity.ContactStatusNew, Stage: entity.ContactStageLead, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	for _, f := range fields {
		v := values[f.Name]
		if v == "" {
			continue
		}
		switch {
		case f.Type == entity.FieldTypeEmail && c.Email == "":
			c.Email = v
		case f.Type == entity.FieldTypePhone && c.Phone == "":
			c.Phone = v
		}
	}

	pick := func(dst *string, names ...string) {
		if *dst != "" {
			return
		}
		for _, n := range names {
			if v := values[n]; v != "" {
				*dst = v
				return
			}
		}
	}
	pick(&c.Email, "email", "your-email", "mail")
	pick(&c.Phone, "phone", "tel", "telephone", "whatsapp")
	pick(&c.FirstName, "first_name", "firstname", "prenom")
	pick(&c.LastName, "last_name", "lastname", "nom")
	if c.FirstName == "" && c.LastName == "" {
		if name := values["name"]; name != "" {
			c.FirstName, c.LastName = entity.SplitName(name)
		}
	}

	c.Email = entity.NormalizeEmail(c.Email)
	c.Phone = entity.NormalizePhone(c.Phone)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	return c
}

// submissionText joins the free-text values used for interest matching.
func submissionText(fields []entity.FormField, values map[string]string) string {
	var parts []string
	for _, f := range fields {
		switch f.Type {
		case entity.FieldTypeEmail, entity.FieldTypePhone, entity.FieldTypeNumber, entity.FieldTypeHidden:
			continue
		}
		if v := values[f.Name]; v != "" {
			parts = append(parts, v)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
