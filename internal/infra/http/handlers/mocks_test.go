package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByEmail(ctx context.Context, email string) (*entity.Contact, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByPhone(ctx context.Context, phone string) (*entity.Contact, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) UpsertByEmailOrPhone(ctx context.Context, c *entity.Contact) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id, status, stage string) error {
	return m.Called(ctx, id, status, stage).Error(0)
}

func (m *MockContactRepository) List(ctx context.Context, f entity.ContactFilter) ([]*entity.Contact, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Contact), args.Int(1), args.Error(2)
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context, limit, offset int) ([]*entity.Lead, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Lead), args.Int(1), args.Error(2)
}

type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) Create(ctx context.Context, f *entity.Form) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFormRepository) Update(ctx context.Context, f *entity.Form) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFormRepository) FindBySlug(ctx context.Context, slug string) (*entity.Form, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormRepository) FindByID(ctx context.Context, id string) (*entity.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormRepository) List(ctx context.Context) ([]*entity.Form, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Form), args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, s *entity.FormSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) ListByContact(ctx context.Context, contactID string) ([]*entity.FormSubmission, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FormSubmission), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Search(ctx context.Context, query string, limit int) ([]*entity.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Product), args.Error(1)
}

type contactSlice []*entity.Contact

func (s contactSlice) Each(_ context.Context, since time.Time, fn func(*entity.Contact) error) error {
	for _, c := range s {
		if c.CreatedAt.Before(since) {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// brokenIterator yields ok rows and then fails.
type brokenIterator struct {
	ok  []*entity.Contact
	err error
}

func (b brokenIterator) Each(ctx context.Context, since time.Time, fn func(*entity.Contact) error) error {
	if err := contactSlice(b.ok).Each(ctx, since, fn); err != nil {
		return err
	}
	return b.err
}

type stubCarrier struct {
	id   string
	cost int
}

func (c stubCarrier) ID() string   { return c.id }
func (c stubCarrier) Name() string { return "Carrier " + c.id }

func (c stubCarrier) Rates(context.Context, entity.Package) ([]entity.Rate, error) {
	return []entity.Rate{{CarrierID: c.id, Service: "std", Label: c.id, CostCents: c.cost}}, nil
}

type carriers []entity.Carrier

func (c carriers) All() []entity.Carrier { return c }

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error { return p.err }
func (p fakePinger) Ping(context.Context) error        { return p.err }
