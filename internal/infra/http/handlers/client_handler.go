package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/pipedrive"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// DealStageSyncer é o recorte do Pipedrive que a mudança de funil usa
type DealStageSyncer interface {
	UpdateDealStage(ctx context.Context, dealID, stageID int) error
}

type ClientHandler struct {
	ClientRepo   entity.ClientRepositoryInterface
	CreateClient *usecase.CreateClientUseCase

	// Syncer é opcional: sem token o funil anda igual, só não espelha
	// o stage do deal
	Syncer      DealStageSyncer
	SyncTimeout time.Duration
}

func NewClientHandler(clientRepo entity.ClientRepositoryInterface, createUC *usecase.CreateClientUseCase, syncer DealStageSyncer) *ClientHandler {
	return &ClientHandler{
		ClientRepo:   clientRepo,
		CreateClient: createUC,
		Syncer:       syncer,
		SyncTimeout:  10 * time.Second,
	}
}

func (h *ClientHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	client, err := h.CreateClient.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.ClientRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if clients == nil {
		clients = []*entity.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := h.ClientRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, client)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus move o cliente no funil de vendas
func (h *ClientHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch req.Status {
	case entity.ClientStatusNew, entity.ClientStatusContacted, entity.ClientStatusProposalSent,
		entity.ClientStatusNegotiating, entity.ClientStatusClosed, entity.ClientStatusLost:
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "status inválido: " + req.Status})
		return
	}

	// Confirma que o cliente existe antes do update cego
	if _, err := h.ClientRepo.FindByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	if err := h.ClientRepo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	client, err := h.ClientRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Espelha o stage do deal fora do caminho crítico: falha aqui não
	// derruba a mudança de funil
	if h.Syncer != nil && client.PipedriveDealID > 0 {
		if stage := pipedrive.StageForStatus(req.Status); stage > 0 {
			go h.syncDealStage(client.PipedriveDealID, stage)
		}
	}

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) syncDealStage(dealID, stageID int) {
	ctx, cancel := context.WithTimeout(context.Background(), h.SyncTimeout)
	defer cancel()

	if err := h.Syncer.UpdateDealStage(ctx, dealID, stageID); err != nil {
		log.Printf("⚠️ Pipedrive: erro ao mover deal %d para stage %d: %v", dealID, stageID, err)
		middleware.RecordIntegrationError("pipedrive")
		return
	}
	log.Printf("✅ Deal %d movido para o stage %d no Pipedrive", dealID, stageID)
}
