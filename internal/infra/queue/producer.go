package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type JobKind string

const (
	JobFollowUp JobKind = "follow-up"
	JobReply    JobKind = "reply"
)

// FollowUpPayload: o trabalho é idempotente por email — a unicidade do
// PENDING fica no banco, não na fila
type FollowUpPayload struct {
	EmailID      string    `json:"email_id"`
	ClientID     string    `json:"client_id,omitempty"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

type ReplyPayload struct {
	ThreadID  string `json:"thread_id"`
	MessageID string `json:"message_id"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
}

// Envelope é a união etiquetada que trafega na fila: um payload tipado
// por kind, nada de map[string]any solto
type Envelope struct {
	Kind     JobKind          `json:"kind"`
	FollowUp *FollowUpPayload `json:"follow_up,omitempty"`
	Reply    *ReplyPayload    `json:"reply,omitempty"`
}

type ProducerInterface interface {
	PublishFollowUp(ctx context.Context, payload FollowUpPayload) error
	PublishReply(ctx context.Context, payload ReplyPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishFollowUp(ctx context.Context, payload FollowUpPayload) error {
	return p.publish(ctx, Envelope{Kind: JobFollowUp, FollowUp: &payload})
}

func (p *RabbitMQProducer) PublishReply(ctx context.Context, payload ReplyPayload) error {
	return p.publish(ctx, Envelope{Kind: JobReply, Reply: &payload})
}

func (p *RabbitMQProducer) publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.crm
		RoutingKey,   // k.follow-up
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
