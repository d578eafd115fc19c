package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError traduz o erro da camada de negócio para o status HTTP certo
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, usecase.HTTPStatus(err), errorResponse{Error: err.Error()})
}
