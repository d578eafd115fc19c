package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type EmailHandler struct {
	EmailRepo    entity.EmailRepositoryInterface
	ComposeEmail *usecase.ComposeEmailUseCase
}

func NewEmailHandler(emailRepo entity.EmailRepositoryInterface, composeUC *usecase.ComposeEmailUseCase) *EmailHandler {
	return &EmailHandler{
		EmailRepo:    emailRepo,
		ComposeEmail: composeUC,
	}
}

// HandleCreate compõe e envia um email de saída (abre uma thread nova)
func (h *EmailHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.ComposeEmailInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	email, err := h.ComposeEmail.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, email)
}

func (h *EmailHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	emails, err := h.EmailRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if emails == nil {
		emails = []*entity.Email{}
	}
	writeJSON(w, http.StatusOK, emails)
}

func (h *EmailHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	email, err := h.EmailRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, email)
}
