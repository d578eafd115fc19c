package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ReplyHandler struct {
	ReconcileReply *usecase.ReconcileReplyUseCase
	rateLimiter    *RateLimiter
}

func NewReplyHandler(uc *usecase.ReconcileReplyUseCase) *ReplyHandler {
	return &ReplyHandler{
		ReconcileReply: uc,
		rateLimiter:    NewRateLimiter(60, time.Minute), // 60 req/min por IP
	}
}

// Handle registra uma resposta recebida e reconcilia o estado da thread.
// Reprocessar a mesma resposta é no-op (email já REPLIED).
func (h *ReplyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
		return
	}

	var input usecase.ReconcileReplyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	output, err := h.ReconcileReply.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	// Resposta já processada antes volta 200 com a flag, não erro
	writeJSON(w, http.StatusOK, output)
}
