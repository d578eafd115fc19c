package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// MockFollowUpRepo
type MockFollowUpRepo struct {
	mock.Mock
}

func (m *MockFollowUpRepo) Create(ctx context.Context, f *entity.FollowUp) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFollowUpRepo) FindByID(ctx context.Context, id string) (*entity.FollowUpWithContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUpWithContext), args.Error(1)
}

func (m *MockFollowUpRepo) FindByStatus(ctx context.Context, status string) ([]*entity.FollowUpWithContext, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUpWithContext), args.Error(1)
}

func (m *MockFollowUpRepo) FindPendingByEmail(ctx context.Context, emailID string) (*entity.FollowUp, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepo) FindByEmail(ctx context.Context, emailID string) ([]*entity.FollowUp, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepo) UpdateContent(ctx context.Context, id, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockFollowUpRepo) MarkSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFollowUpRepo) CancelPending(ctx context.Context, emailID string) (int, error) {
	args := m.Called(ctx, emailID)
	return args.Int(0), args.Error(1)
}

func (m *MockFollowUpRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFollowUpRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockClientRepo
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) Create(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepo) Upsert(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepo) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepo) FindAll(ctx context.Context) ([]*entity.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Client), args.Error(1)
}

func (m *MockClientRepo) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockClientRepo) TouchLastContact(ctx context.Context, id string, when time.Time) error {
	args := m.Called(ctx, id, when)
	return args.Error(0)
}

func (m *MockClientRepo) SavePipedriveIDs(ctx context.Context, id string, orgID, personID, dealID int) error {
	args := m.Called(ctx, id, orgID, personID, dealID)
	return args.Error(0)
}

func (m *MockClientRepo) EscalateDue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

// MockTransport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(to, subject, body string) (string, error) {
	args := m.Called(to, subject, body)
	return args.String(0), args.Error(1)
}

// ============ TESTES DO HANDLER DE FOLLOW-UPS ============

// TestFollowUpListPadraoPendentes - sem query string a lista vem filtrada em PENDING
func TestFollowUpListPadraoPendentes(t *testing.T) {
	repo := new(MockFollowUpRepo)
	repo.On("FindByStatus", mock.Anything, entity.FollowUpStatusPending).
		Return([]*entity.FollowUpWithContext{
			{FollowUp: entity.FollowUp{ID: "f-1", EmailID: "email-1", Status: entity.FollowUpStatusPending}},
		}, nil)

	handler := handlers.NewFollowUpHandler(repo, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/follow-ups", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "f-1")
	repo.AssertExpectations(t)
}

// TestFollowUpSendNaoPendente - PUT num follow-up terminal leva 400
func TestFollowUpSendNaoPendente(t *testing.T) {
	repo := new(MockFollowUpRepo)
	clientRepo := new(MockClientRepo)
	transport := new(MockTransport)

	fuc := &entity.FollowUpWithContext{
		FollowUp: entity.FollowUp{
			ID:      "f-1",
			EmailID: "email-1",
			Content: "texto",
			Status:  entity.FollowUpStatusCancelled,
		},
		Email: &entity.Email{ID: "email-1", Recipient: "a@b.com", Subject: "Oi"},
	}
	repo.On("FindByID", mock.Anything, "f-1").Return(fuc, nil)

	sendUC := usecase.NewSendFollowUpUseCase(repo, clientRepo, transport)
	handler := handlers.NewFollowUpHandler(repo, nil, sendUC)

	r := chi.NewRouter()
	r.Put("/follow-ups/{id}/send", handler.HandleSend)

	req := httptest.NewRequest(http.MethodPut, "/follow-ups/f-1/send", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

// TestFollowUpSendNaoEncontrado
func TestFollowUpSendNaoEncontrado(t *testing.T) {
	repo := new(MockFollowUpRepo)
	clientRepo := new(MockClientRepo)
	transport := new(MockTransport)

	repo.On("FindByID", mock.Anything, "sumiu").Return(nil, entity.ErrFollowUpNotFound)

	sendUC := usecase.NewSendFollowUpUseCase(repo, clientRepo, transport)
	handler := handlers.NewFollowUpHandler(repo, nil, sendUC)

	r := chi.NewRouter()
	r.Put("/follow-ups/{id}/send", handler.HandleSend)

	req := httptest.NewRequest(http.MethodPut, "/follow-ups/sumiu/send", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestFollowUpCreateJSONInvalido
func TestFollowUpCreateJSONInvalido(t *testing.T) {
	handler := handlers.NewFollowUpHandler(new(MockFollowUpRepo), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/follow-ups", bytes.NewBufferString("{quebrado"))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
