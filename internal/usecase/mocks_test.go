package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/queue"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

// MockContactRepository
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

// MockLeadRepository
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

// MockFormRepository
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

// MockVariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) Save(ctx context.Context, v *entity.FormVariant) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVariantRepository) Find(ctx context.Context, formID, key string, category bool) (*entity.FormVariant, error) {
	args := m.Called(ctx, formID, key, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FormVariant), args.Error(1)
}

func (m *MockVariantRepository) ListByForm(ctx context.Context, formID string) ([]*entity.FormVariant, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FormVariant), args.Error(1)
}

// MockSubmissionRepository
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

// MockTagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Ensure(ctx context.Context, name string) (*entity.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Tag), args.Error(1)
}

func (m *MockTagRepository) Assign(ctx context.Context, contactID, tagID string) error {
	return m.Called(ctx, contactID, tagID).Error(0)
}

func (m *MockTagRepository) Unassign(ctx context.Context, contactID, tagID string) error {
	return m.Called(ctx, contactID, tagID).Error(0)
}

func (m *MockTagRepository) ListByContact(ctx context.Context, contactID string) ([]entity.Tag, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context) ([]entity.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

// MockRetentionRepository
type MockRetentionRepository struct {
	mock.Mock
}

func (m *MockRetentionRepository) DeleteOlderThan(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, table, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLead(ctx context.Context, payload queue.LeadPayload) error {
	return m.Called(ctx, payload).Error(0)
}

// notifySpy records notifications sent from background goroutines.
type notifySpy struct {
	sent chan usecase.LeadNotification
}

func newNotifySpy() *notifySpy {
	return &notifySpy{sent: make(chan usecase.LeadNotification, 4)}
}

func (s *notifySpy) SendNewLead(n usecase.LeadNotification) error {
	s.sent <- n
	return nil
}

// memoryInterests accumulates weights the way the database upsert does.
type memoryInterests struct {
	mu      sync.Mutex
	weights map[string]map[string]int
}

func newMemoryInterests() *memoryInterests {
	return &memoryInterests{weights: map[string]map[string]int{}}
}

func (r *memoryInterests) Add(_ context.Context, contactID, key string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if delta <= 0 {
		delta = 1
	}
	if r.weights[contactID] == nil {
		r.weights[contactID] = map[string]int{}
	}
	w := r.weights[contactID][key] + delta
	if w < 1 {
		w = 1
	}
	r.weights[contactID][key] = w
	return w, nil
}

func (r *memoryInterests) ListByContact(_ context.Context, contactID string) ([]entity.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Interest
	for k, w := range r.weights[contactID] {
		out = append(out, entity.Interest{ContactID: contactID, Key: k, Weight: w})
	}
	return out, nil
}

func (r *memoryInterests) Top(context.Context, int) ([]entity.InterestCount, error) {
	return nil, nil
}

// memoryCache is a map-backed CacheStore.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.items {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.items, k)
			n++
		}
	}
	return n, nil
}
