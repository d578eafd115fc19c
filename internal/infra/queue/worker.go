package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// FollowUpProcessor agenda (ou confirma) o follow-up e gera o rascunho
type FollowUpProcessor interface {
	Execute(ctx context.Context, emailID string) (*entity.FollowUp, error)
}

// ReplyReconciler aplica uma resposta recebida à máquina de estados
type ReplyReconciler interface {
	Reconcile(ctx context.Context, threadID, messageID, subject, content string) error
}

type Worker struct {
	Channel   *amqp.Channel
	FollowUps FollowUpProcessor
	Replies   ReplyReconciler

	// Retentativa em processo antes de desistir pro DLQ
	MaxAttempts int
	RetryDelay  time.Duration
}

func NewWorker(ch *amqp.Channel, followUps FollowUpProcessor, replies ReplyReconciler) *Worker {
	return &Worker{
		Channel:     ch,
		FollowUps:   followUps,
		Replies:     replies,
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
	}
}

func (w *Worker) Start(ctx context.Context, queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Worker encerrado")
			return
		case d, ok := <-msgs:
			if !ok {
				log.Println("⚠️ Canal de consumo fechado")
				return
			}
			w.handleDelivery(ctx, d)
		}
	}
}

// Drain consome a fila até esvaziar ou estourar o orçamento — é o que o
// endpoint /cron usa para não deixar backlog crescer entre disparos
func (w *Worker) Drain(ctx context.Context, queueName string, budget int) (int, error) {
	processed := 0
	for processed < budget {
		d, ok, err := w.Channel.Get(queueName, false)
		if err != nil {
			return processed, err
		}
		if !ok {
			break // fila vazia
		}
		w.handleDelivery(ctx, d)
		processed++
	}
	return processed, nil
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var env Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		log.Printf("❌ [WORKER] JSON Inválido: %s", err)
		// Mensagem podre (malformada). Rejeita sem requeue — vai direto pro DLQ.
		middleware.RecordJobDeadLettered(string(JobFollowUp))
		d.Nack(false, false)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= w.MaxAttempts; attempt++ {
		lastErr = w.process(ctx, env)
		if lastErr == nil {
			d.Ack(false)
			return
		}
		log.Printf("❌ [WORKER] kind=%s tentativa %d/%d: %s", env.Kind, attempt, w.MaxAttempts, lastErr)
		if attempt < w.MaxAttempts {
			time.Sleep(w.RetryDelay * time.Duration(attempt))
		}
	}

	// Esgotou as tentativas: dead-letter, nunca descarte silencioso
	log.Printf("💀 [WORKER] kind=%s esgotou retentativas, indo pro DLQ: %s", env.Kind, lastErr)
	middleware.RecordJobDeadLettered(string(env.Kind))
	d.Nack(false, false)
}

func (w *Worker) process(ctx context.Context, env Envelope) error {
	switch env.Kind {
	case JobFollowUp:
		if env.FollowUp == nil {
			return errors.New("envelope follow-up sem payload")
		}
		log.Printf("⚙️ [WORKER] Processando follow-up do email %s", env.FollowUp.EmailID)
		_, err := w.FollowUps.Execute(ctx, env.FollowUp.EmailID)
		return err

	case JobReply:
		if env.Reply == nil {
			return errors.New("envelope reply sem payload")
		}
		log.Printf("⚙️ [WORKER] Reconciliando resposta da thread %s", env.Reply.ThreadID)
		return w.Replies.Reconcile(ctx, env.Reply.ThreadID, env.Reply.MessageID, env.Reply.Subject, env.Reply.Content)

	default:
		log.Printf("⚠️ Tipo de job desconhecido: %s. Apenas logando.", env.Kind)
		// ACK mesmo assim: não sabemos tratar e requeue só travaria a fila
		return nil
	}
}
