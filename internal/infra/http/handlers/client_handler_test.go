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
)

// fakeStageSyncer registra as chamadas num canal para o teste poder
// esperar a goroutine de sync
type fakeStageSyncer struct {
	calls chan [2]int
}

func newFakeStageSyncer() *fakeStageSyncer {
	return &fakeStageSyncer{calls: make(chan [2]int, 1)}
}

func (f *fakeStageSyncer) UpdateDealStage(ctx context.Context, dealID, stageID int) error {
	f.calls <- [2]int{dealID, stageID}
	return nil
}

func clientComDeal() *entity.Client {
	return &entity.Client{
		ID:              "client-1",
		CompanyName:     "Empresa XPTO",
		LeadName:        "Maria Souza",
		Email:           "maria@xpto.com.br",
		Status:          entity.ClientStatusContacted,
		PipedriveDealID: 42,
	}
}

func newClientRouter(repo *MockClientRepo, syncer handlers.DealStageSyncer) *chi.Mux {
	h := handlers.NewClientHandler(repo, nil, syncer)
	r := chi.NewRouter()
	r.Patch("/clients/{id}/status", h.HandleUpdateStatus)
	return r
}

// TestUpdateStatusEspelhaStageNoPipedrive - mudar o funil move o deal
func TestUpdateStatusEspelhaStageNoPipedrive(t *testing.T) {
	repo := new(MockClientRepo)
	repo.On("FindByID", mock.Anything, "client-1").Return(clientComDeal(), nil)
	repo.On("UpdateStatus", mock.Anything, "client-1", entity.ClientStatusNegotiating).Return(nil)

	syncer := newFakeStageSyncer()
	router := newClientRouter(repo, syncer)

	body := bytes.NewBufferString(`{"status": "NEGOTIATING"}`)
	req := httptest.NewRequest("PATCH", "/clients/client-1/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case call := <-syncer.calls:
		assert.Equal(t, 42, call[0]) // deal do cliente
		assert.Equal(t, 4, call[1])  // NEGOTIATING -> stage 4
	case <-time.After(2 * time.Second):
		t.Fatal("esperava chamada ao Pipedrive para mover o stage do deal")
	}
	repo.AssertExpectations(t)
}

// TestUpdateStatusSemStageNaoChamaPipedrive - LOST não tem stage no pipeline
func TestUpdateStatusSemStageNaoChamaPipedrive(t *testing.T) {
	repo := new(MockClientRepo)
	repo.On("FindByID", mock.Anything, "client-1").Return(clientComDeal(), nil)
	repo.On("UpdateStatus", mock.Anything, "client-1", entity.ClientStatusLost).Return(nil)

	syncer := newFakeStageSyncer()
	router := newClientRouter(repo, syncer)

	body := bytes.NewBufferString(`{"status": "LOST"}`)
	req := httptest.NewRequest("PATCH", "/clients/client-1/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-syncer.calls:
		t.Fatal("LOST não deveria mexer no stage do deal")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestUpdateStatusInvalido
func TestUpdateStatusInvalido(t *testing.T) {
	repo := new(MockClientRepo)
	router := newClientRouter(repo, nil)

	body := bytes.NewBufferString(`{"status": "QUASE_FECHANDO"}`)
	req := httptest.NewRequest("PATCH", "/clients/client-1/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
