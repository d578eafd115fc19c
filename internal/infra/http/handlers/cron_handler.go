package handlers

import (
	"context"
	"log"
	"net/http"
)

// Scanner dispara a varredura de follow-ups vencidos e o polling de respostas
type Scanner interface {
	ScanOnce(ctx context.Context) int
	CheckReplies(ctx context.Context) int
}

// Drainer consome até budget jobs da fila (processamento síncrono do cron)
type Drainer interface {
	Drain(ctx context.Context, queueName string, budget int) (int, error)
}

type CronHandler struct {
	Scheduler Scanner
	Worker    Drainer
	QueueName string
	Budget    int
	Secret    string
}

func NewCronHandler(scheduler Scanner, worker Drainer, queueName string, budget int, secret string) *CronHandler {
	return &CronHandler{
		Scheduler: scheduler,
		Worker:    worker,
		QueueName: queueName,
		Budget:    budget,
		Secret:    secret,
	}
}

type cronResponse struct {
	Scheduled       int `json:"scheduled"`
	Drained         int `json:"drained"`
	RepliesDetected int `json:"replies_detected"`
}

// Handle é o gatilho externo (Vercel cron, crontab, curl). Idempotente:
// rodar duas vezes seguidas não duplica follow-up nenhum.
func (h *CronHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("secret") != h.Secret {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	ctx := r.Context()

	scheduled := h.Scheduler.ScanOnce(ctx)
	replies := h.Scheduler.CheckReplies(ctx)

	drained, err := h.Worker.Drain(ctx, h.QueueName, h.Budget)
	if err != nil {
		log.Printf("⚠️ Cron: drain interrompido após %d job(s): %v", drained, err)
	}

	writeJSON(w, http.StatusOK, cronResponse{
		Scheduled:       scheduled,
		Drained:         drained,
		RepliesDetected: replies,
	})
}
