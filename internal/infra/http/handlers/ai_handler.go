package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// InitialDrafter é o recorte do gerador que o rascunho de prospecção usa
type InitialDrafter interface {
	DraftInitialEmail(ctx context.Context, input openai.InitialEmailInput) (string, error)
}

// AIHandler expõe o rascunho assistido: o texto volta para o operador
// revisar e só vira email de verdade via POST /emails
type AIHandler struct {
	Drafter InitialDrafter
}

func NewAIHandler(drafter InitialDrafter) *AIHandler {
	return &AIHandler{Drafter: drafter}
}

type draftResponse struct {
	Draft string `json:"draft"`
}

func (h *AIHandler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	var input openai.InitialEmailInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if input.ClientName == "" || input.Context == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "client_name e context são obrigatórios"})
		return
	}
	switch input.Tone {
	case "", "professional", "friendly", "formal":
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tone inválido: " + input.Tone})
		return
	}
	switch input.Length {
	case "", "short", "medium", "long":
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "length inválido: " + input.Length})
		return
	}

	draft, err := h.Drafter.DraftInitialEmail(r.Context(), input)
	if err != nil {
		middleware.RecordIntegrationError("openai")
		writeError(w, &usecase.TechnicalError{
			Code:    usecase.CodeAdapterFailure,
			Message: "falha ao gerar rascunho",
			Err:     err,
		})
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{Draft: draft})
}
