package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type FollowUpHandler struct {
	FollowUpRepo   entity.FollowUpRepositoryInterface
	CreateFollowUp *usecase.CreateFollowUpUseCase
	SendFollowUp   *usecase.SendFollowUpUseCase
}

func NewFollowUpHandler(
	followUpRepo entity.FollowUpRepositoryInterface,
	createUC *usecase.CreateFollowUpUseCase,
	sendUC *usecase.SendFollowUpUseCase,
) *FollowUpHandler {
	return &FollowUpHandler{
		FollowUpRepo:   followUpRepo,
		CreateFollowUp: createUC,
		SendFollowUp:   sendUC,
	}
}

// HandleList lista follow-ups já com email e cliente juntados
// (?status=PENDING é o filtro da tela de revisão)
func (h *FollowUpHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = entity.FollowUpStatusPending
	}

	followUps, err := h.FollowUpRepo.FindByStatus(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}

	if followUps == nil {
		followUps = []*entity.FollowUpWithContext{}
	}
	writeJSON(w, http.StatusOK, followUps)
}

func (h *FollowUpHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	followUp, err := h.FollowUpRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, followUp)
}

func (h *FollowUpHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateFollowUpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	followUp, err := h.CreateFollowUp.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, followUp)
}

// HandleSend dispara o envio de um follow-up revisado por humano
func (h *FollowUpHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	followUp, err := h.SendFollowUp.Execute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, followUp)
}

type updateContentRequest struct {
	Content string `json:"content"`
}

// HandleUpdateContent permite editar o rascunho antes do envio
func (h *FollowUpHandler) HandleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		writeError(w, entity.ErrEmptyContent)
		return
	}

	if err := h.FollowUpRepo.UpdateContent(r.Context(), id, req.Content); err != nil {
		writeError(w, err)
		return
	}

	followUp, err := h.FollowUpRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, followUp)
}
