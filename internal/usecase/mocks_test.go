package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/pipedrive"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// MockEmailRepository
type MockEmailRepository struct {
	mock.Mock
}

func (m *MockEmailRepository) Create(ctx context.Context, e *entity.Email) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEmailRepository) FindByID(ctx context.Context, id string) (*entity.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Email), args.Error(1)
}

func (m *MockEmailRepository) FindAll(ctx context.Context) ([]*entity.Email, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Email), args.Error(1)
}

func (m *MockEmailRepository) FindFirstInThread(ctx context.Context, threadID string) (*entity.Email, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Email), args.Error(1)
}

func (m *MockEmailRepository) FindDueForFollowUp(ctx context.Context, cutoff time.Time) ([]*entity.Email, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Email), args.Error(1)
}

func (m *MockEmailRepository) FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Email, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Email), args.Error(1)
}

func (m *MockEmailRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockEmailRepository) MarkReplied(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailRepository) MarkFailed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockFollowUpRepository
type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFollowUpRepository) FindByID(ctx context.Context, id string) (*entity.FollowUpWithContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUpWithContext), args.Error(1)
}

func (m *MockFollowUpRepository) FindByStatus(ctx context.Context, status string) ([]*entity.FollowUpWithContext, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUpWithContext), args.Error(1)
}

func (m *MockFollowUpRepository) FindPendingByEmail(ctx context.Context, emailID string) (*entity.FollowUp, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) FindByEmail(ctx context.Context, emailID string) ([]*entity.FollowUp, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) UpdateContent(ctx context.Context, id, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockFollowUpRepository) MarkSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFollowUpRepository) CancelPending(ctx context.Context, emailID string) (int, error) {
	args := m.Called(ctx, emailID)
	return args.Int(0), args.Error(1)
}

func (m *MockFollowUpRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFollowUpRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Upsert(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context) ([]*entity.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Client), args.Error(1)
}

func (m *MockClientRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockClientRepository) TouchLastContact(ctx context.Context, id string, when time.Time) error {
	args := m.Called(ctx, id, when)
	return args.Error(0)
}

func (m *MockClientRepository) SavePipedriveIDs(ctx context.Context, id string, orgID, personID, dealID int) error {
	args := m.Called(ctx, id, orgID, personID, dealID)
	return args.Error(0)
}

func (m *MockClientRepository) EscalateDue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

// MockContentGenerator
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) DraftFollowUp(ctx context.Context, original openai.OriginalEmail) (string, error) {
	args := m.Called(ctx, original)
	return args.String(0), args.Error(1)
}

func (m *MockContentGenerator) AnalyzeReply(ctx context.Context, original openai.OriginalEmail, reply string) (*openai.ReplyAnalysis, error) {
	args := m.Called(ctx, original, reply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ReplyAnalysis), args.Error(1)
}

func (m *MockContentGenerator) DraftChainReply(ctx context.Context, original openai.OriginalEmail, reply string, analysis *openai.ReplyAnalysis) (string, error) {
	args := m.Called(ctx, original, reply, analysis)
	return args.String(0), args.Error(1)
}

// MockMailTransport
type MockMailTransport struct {
	mock.Mock
}

func (m *MockMailTransport) Send(to, subject, body string) (string, error) {
	args := m.Called(to, subject, body)
	return args.String(0), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishFollowUp(ctx context.Context, payload queue.FollowUpPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockQueueProducer) PublishReply(ctx context.Context, payload queue.ReplyPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockDealSyncer
type MockDealSyncer struct {
	mock.Mock
}

func (m *MockDealSyncer) CreateOrganization(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *MockDealSyncer) CreatePerson(ctx context.Context, input pipedrive.CreatePersonInput) (int, error) {
	args := m.Called(ctx, input)
	return args.Int(0), args.Error(1)
}

func (m *MockDealSyncer) CreateDeal(ctx context.Context, input pipedrive.CreateDealInput) (int, error) {
	args := m.Called(ctx, input)
	return args.Int(0), args.Error(1)
}
