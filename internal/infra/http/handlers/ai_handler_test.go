package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
)

type fakeDrafter struct {
	draft string
	err   error
	calls int
	last  openai.InitialEmailInput
}

func (f *fakeDrafter) DraftInitialEmail(ctx context.Context, input openai.InitialEmailInput) (string, error) {
	f.calls++
	f.last = input
	return f.draft, f.err
}

// TestDraftInicialComSucesso
func TestDraftInicialComSucesso(t *testing.T) {
	drafter := &fakeDrafter{draft: "Subject: Proposta\n\nOlá Maria, ..."}
	h := handlers.NewAIHandler(drafter)

	body := bytes.NewBufferString(`{"client_name": "Maria Souza", "context": "software de gestão", "tone": "friendly"}`)
	req := httptest.NewRequest(http.MethodPost, "/ai/draft", body)
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Proposta")
	assert.Equal(t, 1, drafter.calls)
	assert.Equal(t, "friendly", drafter.last.Tone)
}

// TestDraftInicialSemContexto - client_name e context são obrigatórios
func TestDraftInicialSemContexto(t *testing.T) {
	drafter := &fakeDrafter{}
	h := handlers.NewAIHandler(drafter)

	body := bytes.NewBufferString(`{"client_name": "Maria Souza"}`)
	req := httptest.NewRequest(http.MethodPost, "/ai/draft", body)
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, drafter.calls)
}

// TestDraftInicialTomInvalido
func TestDraftInicialTomInvalido(t *testing.T) {
	drafter := &fakeDrafter{}
	h := handlers.NewAIHandler(drafter)

	body := bytes.NewBufferString(`{"client_name": "Maria", "context": "proposta", "tone": "agressivo"}`)
	req := httptest.NewRequest(http.MethodPost, "/ai/draft", body)
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, drafter.calls)
}

// TestDraftInicialFalhaNoGerador
func TestDraftInicialFalhaNoGerador(t *testing.T) {
	drafter := &fakeDrafter{err: errors.New("openai fora do ar")}
	h := handlers.NewAIHandler(drafter)

	body := bytes.NewBufferString(`{"client_name": "Maria", "context": "proposta"}`)
	req := httptest.NewRequest(http.MethodPost, "/ai/draft", body)
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
