package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type adminFixture struct {
	contacts    *MockContactRepository
	leads       *MockLeadRepository
	tags        *MockTagRepository
	interests   *memoryInterests
	submissions *MockSubmissionRepository
	admin       *usecase.ContactAdmin
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		contacts:    new(MockContactRepository),
		leads:       new(MockLeadRepository),
		tags:        new(MockTagRepository),
		interests:   newMemoryInterests(),
		submissions: new(MockSubmissionRepository),
	}
	f.admin = usecase.NewContactAdmin(f.contacts, f.leads, f.tags, f.interests, f.submissions, zap.NewNop())
	return f
}

func TestContactAdmin_ListClampsPaging(t *testing.T) {
	f := newAdminFixture()
	f.contacts.On("List", mock.Anything, entity.ContactFilter{Search: "ann", Limit: 200, Offset: 0}).
		Return([]*entity.Contact{{ID: "c1"}}, 1, nil)

	page, err := f.admin.List(context.Background(), entity.ContactFilter{Search: "ann", Limit: 1000, Offset: -4})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 200, page.Limit)
}

func TestContactAdmin_ListRejectsUnknownStatus(t *testing.T) {
	f := newAdminFixture()

	_, err := f.admin.List(context.Background(), entity.ContactFilter{Status: "vip"})

	assert.True(t, usecase.IsDomainError(err))
}

func TestContactAdmin_GetLoadsRelations(t *testing.T) {
	f := newAdminFixture()
	f.contacts.On("FindByID", mock.Anything, "c1").Return(&entity.Contact{ID: "c1"}, nil)
	f.tags.On("ListByContact", mock.Anything, "c1").Return([]entity.Tag{{ID: "t1", Name: "VIP"}}, nil)
	f.submissions.On("ListByContact", mock.Anything, "c1").Return([]*entity.FormSubmission{{ID: "s1"}}, nil)
	_, _ = f.interests.Add(context.Background(), "c1", "pricing", 3)

	detail, err := f.admin.Get(context.Background(), "c1")

	require.NoError(t, err)
	assert.Len(t, detail.Contact.Tags, 1)
	require.Len(t, detail.Contact.Interests, 1)
	assert.Equal(t, 3, detail.Contact.Interests[0].Weight)
	assert.Len(t, detail.Submissions, 1)
}

func TestContactAdmin_GetNotFound(t *testing.T) {
	f := newAdminFixture()
	f.contacts.On("FindByID", mock.Anything, "nope").Return(nil, entity.ErrContactNotFound)

	_, err := f.admin.Get(context.Background(), "nope")

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONTACT_NOT_FOUND", de.Code)
}

func TestContactAdmin_UpdateStatusValidates(t *testing.T) {
	f := newAdminFixture()

	assert.True(t, usecase.IsDomainError(f.admin.UpdateStatus(context.Background(), "c1", "", "")))
	assert.True(t, usecase.IsDomainError(f.admin.UpdateStatus(context.Background(), "c1", "gold", "")))
	assert.True(t, usecase.IsDomainError(f.admin.UpdateStatus(context.Background(), "c1", "", "closed")))
	f.contacts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContactAdmin_UpdateStatus(t *testing.T) {
	f := newAdminFixture()
	f.contacts.On("UpdateStatus", mock.Anything, "c1", entity.ContactStatusCustomer, entity.ContactStageWon).Return(nil)

	err := f.admin.UpdateStatus(context.Background(), "c1", entity.ContactStatusCustomer, entity.ContactStageWon)

	require.NoError(t, err)
	f.contacts.AssertExpectations(t)
}

func TestContactAdmin_AddTag(t *testing.T) {
	f := newAdminFixture()
	f.contacts.On("FindByID", mock.Anything, "c1").Return(&entity.Contact{ID: "c1"}, nil)
	f.tags.On("Ensure", mock.Anything, "Newsletter").Return(&entity.Tag{ID: "t9", Name: "Newsletter", Slug: "newsletter"}, nil)
	f.tags.On("Assign", mock.Anything, "c1", "t9").Return(nil)

	tag, err := f.admin.AddTag(context.Background(), "c1", "Newsletter")

	require.NoError(t, err)
	assert.Equal(t, "newsletter", tag.Slug)
	f.tags.AssertExpectations(t)
}

func TestContactAdmin_DeleteMissing(t *testing.T) {
	f := newAdminFixture()
	f.contacts.On("Delete", mock.Anything, "c1").Return(entity.ErrContactNotFound)

	err := f.admin.Delete(context.Background(), "c1")

	assert.True(t, usecase.IsDomainError(err))
}

func TestContactAdmin_ListLeadsDefaultsPageSize(t *testing.T) {
	f := newAdminFixture()
	f.leads.On("List", mock.Anything, 20, 0).Return(nil, 0, nil)

	leads, total, err := f.admin.ListLeads(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, leads)
}
