package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AnalyticsHandler struct {
	EmailRepo    entity.EmailRepositoryInterface
	FollowUpRepo entity.FollowUpRepositoryInterface
}

func NewAnalyticsHandler(emailRepo entity.EmailRepositoryInterface, followUpRepo entity.FollowUpRepositoryInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		EmailRepo:    emailRepo,
		FollowUpRepo: followUpRepo,
	}
}

type analyticsResponse struct {
	Type   string         `json:"type"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// Handle responde contagens agregadas por status:
// /analytics/emails, /analytics/follow-ups, /analytics/replies
func (h *AnalyticsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	ctx := r.Context()

	var counts map[string]int
	var err error

	switch kind {
	case "emails":
		counts, err = h.EmailRepo.CountByStatus(ctx)
	case "follow-ups":
		counts, err = h.FollowUpRepo.CountByStatus(ctx)
	case "replies":
		// Resposta = email que chegou a REPLIED; a taxa sai da razão
		// REPLIED / SENT acumulados
		counts, err = h.EmailRepo.CountByStatus(ctx)
		if err == nil {
			counts = map[string]int{
				"replied":  counts[entity.EmailStatusReplied],
				"awaiting": counts[entity.EmailStatusSent],
				"failed":   counts[entity.EmailStatusFailed],
			}
		}
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tipo de analytics desconhecido: " + kind})
		return
	}

	if err != nil {
		writeError(w, err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	writeJSON(w, http.StatusOK, analyticsResponse{
		Type:   kind,
		Total:  total,
		Counts: counts,
	})
}
