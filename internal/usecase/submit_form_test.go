package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/queue"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type submitFixture struct {
	forms       *MockFormRepository
	contacts    *MockContactRepository
	submissions *MockSubmissionRepository
	tags        *MockTagRepository
	queue       *MockQueueProducer
	interests   *memoryInterests
	uc          *usecase.SubmitFormUseCase
}

func newSubmitFixture(form *entity.Form) *submitFixture {
	f := &submitFixture{
		forms:       new(MockFormRepository),
		contacts:    new(MockContactRepository),
		submissions: new(MockSubmissionRepository),
		tags:        new(MockTagRepository),
		queue:       new(MockQueueProducer),
		interests:   newMemoryInterests(),
	}
	f.forms.On("FindBySlug", mock.Anything, form.Slug).Return(form, nil)
	f.uc = usecase.NewSubmitFormUseCase(
		usecase.NewFormSchemaResolver(f.forms, nil),
		f.contacts,
		f.submissions,
		f.tags,
		usecase.NewInterestUpdater(f.interests, testDictionary),
		f.queue,
		nil,
		zap.NewNop(),
	)
	return f
}

func quoteForm() *entity.Form {
	return &entity.Form{
		ID:     "form-1",
		Slug:   "quote",
		Title:  "Request a quote",
		Status: entity.FormStatusActive,
		Fields: []entity.FormField{
			{Name: "name", Type: entity.FieldTypeText},
			{Name: "email", Type: entity.FieldTypeEmail, Required: boolPtr(true)},
			{Name: "phone", Type: entity.FieldTypePhone},
			{Name: "message", Type: entity.FieldTypeTextarea},
		},
		DefaultTags: []string{"Quote Request"},
	}
}

func TestSubmitForm_NewContact(t *testing.T) {
	f := newSubmitFixture(quoteForm())

	f.contacts.On("UpsertByEmailOrPhone", mock.Anything, mock.MatchedBy(func(c *entity.Contact) bool {
		return c.Email == "jane@example.com" && c.FirstName == "Jane" && c.LastName == "Doe" && c.Source == "form:quote"
	})).Return(true, nil).Once()
	f.submissions.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.FormSubmission) bool {
		return s.FormID == "form-1" && s.ContactID != "" && s.Values["message"] == "What is the price?"
	})).Return(nil).Once()
	f.tags.On("Ensure", mock.Anything, "Quote Request").Return(&entity.Tag{ID: "tag-1", Name: "Quote Request", Slug: "quote-request"}, nil)
	f.tags.On("Assign", mock.Anything, mock.Anything, "tag-1").Return(nil)
	f.queue.On("PublishLead", mock.Anything, mock.MatchedBy(func(p queue.LeadPayload) bool {
		return p.Email == "jane@example.com" && p.NewContact && p.FormSlug == "quote"
	})).Return(nil).Once()

	out, err := f.uc.Execute(context.Background(), usecase.SubmitFormInput{
		Slug: "quote",
		Values: map[string]string{
			"name":    "Jane Doe",
			"email":   " Jane@Example.com ",
			"message": "What is the price?",
			"extra":   "dropped",
		},
	})

	require.NoError(t, err)
	assert.True(t, out.NewContact)
	assert.NotEmpty(t, out.ContactID)
	assert.NotEmpty(t, out.SubmissionID)
	assert.Equal(t, []string{"pricing"}, out.Interests)
	assert.Equal(t, 1, f.interests.weights[out.ContactID]["pricing"])
	f.contacts.AssertExpectations(t)
	f.submissions.AssertExpectations(t)
	f.tags.AssertExpectations(t)
	f.queue.AssertExpectations(t)
}

func TestSubmitForm_ResubmitUpdatesExistingContact(t *testing.T) {
	f := newSubmitFixture(quoteForm())

	f.contacts.On("UpsertByEmailOrPhone", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Contact).ID = "existing-contact"
		}).
		Return(false, nil).Twice()
	f.submissions.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.FormSubmission) bool {
		return s.ContactID == "existing-contact"
	})).Return(nil).Twice()
	f.tags.On("Ensure", mock.Anything, mock.Anything).Return(&entity.Tag{ID: "tag-1"}, nil)
	f.tags.On("Assign", mock.Anything, "existing-contact", "tag-1").Return(nil)
	f.queue.On("PublishLead", mock.Anything, mock.Anything).Return(nil)

	input := usecase.SubmitFormInput{Slug: "quote", Values: map[string]string{"email": "jane@example.com"}}
	for i := 0; i < 2; i++ {
		out, err := f.uc.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.False(t, out.NewContact)
		assert.Equal(t, "existing-contact", out.ContactID)
	}
	f.contacts.AssertExpectations(t)
	f.contacts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSubmitForm_ValidationErrors(t *testing.T) {
	f := newSubmitFixture(quoteForm())

	_, err := f.uc.Execute(context.Background(), usecase.SubmitFormInput{
		Slug:   "quote",
		Values: map[string]string{"email": "not-an-email", "phone": "12"},
	})

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_ERROR", de.Code)
	assert.Len(t, de.Fields, 2)
	f.contacts.AssertNotCalled(t, "UpsertByEmailOrPhone", mock.Anything, mock.Anything)
}

func TestSubmitForm_UnknownForm(t *testing.T) {
	f := newSubmitFixture(quoteForm())
	f.forms.On("FindBySlug", mock.Anything, "missing").Return(nil, entity.ErrFormNotFound)

	_, err := f.uc.Execute(context.Background(), usecase.SubmitFormInput{Slug: "missing"})

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "FORM_NOT_FOUND", de.Code)
}

func TestSubmitForm_DisabledForm(t *testing.T) {
	form := quoteForm()
	form.Status = entity.FormStatusDisabled
	f := newSubmitFixture(form)

	_, err := f.uc.Execute(context.Background(), usecase.SubmitFormInput{Slug: "quote", Values: map[string]string{"email": "a@b.co"}})

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "FORM_DISABLED", de.Code)
}

func TestSubmitForm_RequiresIdentity(t *testing.T) {
	form := quoteForm()
	form.Fields[1].Required = boolPtr(false)
	f := newSubmitFixture(form)

	_, err := f.uc.Execute(context.Background(), usecase.SubmitFormInput{Slug: "quote", Values: map[string]string{"message": "hi"}})

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "MISSING_IDENTITY", de.Code)
}

func TestSubmitForm_SubmissionFailureDeletesNewContact(t *testing.T) {
	f := newSubmitFixture(quoteForm())

	var createdID string
	f.contacts.On("UpsertByEmailOrPhone", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { createdID = args.Get(1).(*entity.Contact).ID }).
		Return(true, nil)
	f.submissions.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	f.contacts.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

	_, err := f.uc.Execute(context.Background(), usecase.SubmitFormInput{Slug: "quote", Values: map[string]string{"email": "a@b.co"}})

	var te *usecase.TechnicalError
	require.ErrorAs(t, err, &te)
	f.contacts.AssertCalled(t, "Delete", mock.Anything, createdID)
	f.queue.AssertNotCalled(t, "PublishLead", mock.Anything, mock.Anything)
}

func TestSubmitForm_ForwardingFailureDoesNotFailSubmission(t *testing.T) {
	f := newSubmitFixture(quoteForm())
	spy := newNotifySpy()
	f.uc.Email = spy

	f.contacts.On("UpsertByEmailOrPhone", mock.Anything, mock.Anything).Return(true, nil)
	f.submissions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.tags.On("Ensure", mock.Anything, mock.Anything).Return(nil, errors.New("tags down"))
	f.queue.On("PublishLead", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	out, err := f.uc.Execute(context.Background(), usecase.SubmitFormInput{Slug: "quote", Values: map[string]string{"email": "a@b.co"}})

	require.NoError(t, err)
	assert.True(t, out.NewContact)
	select {
	case n := <-spy.sent:
		assert.Equal(t, "a@b.co", n.Email)
		assert.Equal(t, "Request a quote", n.Form)
	case <-time.After(time.Second):
		t.Fatal("notification not sent")
	}
}
