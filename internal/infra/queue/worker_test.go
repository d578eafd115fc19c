package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// fakeAcknowledger grava o destino da mensagem (ack, nack, requeue)
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

type MockFollowUpProcessor struct {
	mock.Mock
}

func (m *MockFollowUpProcessor) Execute(ctx context.Context, emailID string) (*entity.FollowUp, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUp), args.Error(1)
}

type MockReplyReconciler struct {
	mock.Mock
}

func (m *MockReplyReconciler) Reconcile(ctx context.Context, threadID, messageID, subject, content string) error {
	args := m.Called(ctx, threadID, messageID, subject, content)
	return args.Error(0)
}

func newTestWorker(followUps FollowUpProcessor, replies ReplyReconciler) *Worker {
	return &Worker{
		FollowUps:   followUps,
		Replies:     replies,
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond, // sem esperar de verdade nos testes
	}
}

func delivery(ack *fakeAcknowledger, body []byte) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

// TestWorkerAckNoSucesso - job de follow-up processado com sucesso é ACKado
func TestWorkerAckNoSucesso(t *testing.T) {
	followUps := new(MockFollowUpProcessor)
	replies := new(MockReplyReconciler)
	followUps.On("Execute", mock.Anything, "email-1").Return(&entity.FollowUp{ID: "f-1"}, nil)

	env := Envelope{Kind: JobFollowUp, FollowUp: &FollowUpPayload{EmailID: "email-1"}}
	body, _ := json.Marshal(env)

	ack := &fakeAcknowledger{}
	w := newTestWorker(followUps, replies)
	w.handleDelivery(context.Background(), delivery(ack, body))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	followUps.AssertNumberOfCalls(t, "Execute", 1)
}

// TestWorkerDeadLetterAposRetentativas - falha persistente vai pro DLQ
// (nack sem requeue), nunca descarte silencioso nem loop infinito
func TestWorkerDeadLetterAposRetentativas(t *testing.T) {
	followUps := new(MockFollowUpProcessor)
	replies := new(MockReplyReconciler)
	followUps.On("Execute", mock.Anything, "email-1").Return(nil, errors.New("db offline"))

	env := Envelope{Kind: JobFollowUp, FollowUp: &FollowUpPayload{EmailID: "email-1"}}
	body, _ := json.Marshal(env)

	ack := &fakeAcknowledger{}
	w := newTestWorker(followUps, replies)
	w.handleDelivery(context.Background(), delivery(ack, body))

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue) // requeue=false deixa a topologia rotear pro DLQ
	followUps.AssertNumberOfCalls(t, "Execute", 3)
}

// TestWorkerJSONInvalido - mensagem podre vai direto pro DLQ, sem retentativa
func TestWorkerJSONInvalido(t *testing.T) {
	followUps := new(MockFollowUpProcessor)
	replies := new(MockReplyReconciler)

	ack := &fakeAcknowledger{}
	w := newTestWorker(followUps, replies)
	w.handleDelivery(context.Background(), delivery(ack, []byte("{nao é json")))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	followUps.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

// TestWorkerSucessoNaSegundaTentativa - erro transiente se recupera sem DLQ
func TestWorkerSucessoNaSegundaTentativa(t *testing.T) {
	followUps := new(MockFollowUpProcessor)
	replies := new(MockReplyReconciler)
	followUps.On("Execute", mock.Anything, "email-1").Return(nil, errors.New("timeout")).Once()
	followUps.On("Execute", mock.Anything, "email-1").Return(&entity.FollowUp{ID: "f-1"}, nil).Once()

	env := Envelope{Kind: JobFollowUp, FollowUp: &FollowUpPayload{EmailID: "email-1"}}
	body, _ := json.Marshal(env)

	ack := &fakeAcknowledger{}
	w := newTestWorker(followUps, replies)
	w.handleDelivery(context.Background(), delivery(ack, body))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	followUps.AssertNumberOfCalls(t, "Execute", 2)
}

// TestWorkerJobDeReply - envelope reply chega no reconciliador com os campos certos
func TestWorkerJobDeReply(t *testing.T) {
	followUps := new(MockFollowUpProcessor)
	replies := new(MockReplyReconciler)
	replies.On("Reconcile", mock.Anything, "thread-1", "msg-1", "Re: Proposta", "corpo").Return(nil)

	env := Envelope{Kind: JobReply, Reply: &ReplyPayload{
		ThreadID:  "thread-1",
		MessageID: "msg-1",
		Subject:   "Re: Proposta",
		Content:   "corpo",
	}}
	body, _ := json.Marshal(env)

	ack := &fakeAcknowledger{}
	w := newTestWorker(followUps, replies)
	w.handleDelivery(context.Background(), delivery(ack, body))

	assert.True(t, ack.acked)
	replies.AssertExpectations(t)
}

// TestWorkerKindDesconhecido - job de tipo desconhecido é ACKado (requeue travaria a fila)
func TestWorkerKindDesconhecido(t *testing.T) {
	followUps := new(MockFollowUpProcessor)
	replies := new(MockReplyReconciler)

	body, _ := json.Marshal(Envelope{Kind: "migracao-antiga"})

	ack := &fakeAcknowledger{}
	w := newTestWorker(followUps, replies)
	w.handleDelivery(context.Background(), delivery(ack, body))

	assert.True(t, ack.acked)
	followUps.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	replies.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestEnvelopeRoundTrip - o envelope etiquetado preserva o payload certo por kind
func TestEnvelopeRoundTrip(t *testing.T) {
	scheduled := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	env := Envelope{Kind: JobFollowUp, FollowUp: &FollowUpPayload{
		EmailID:      "email-1",
		ClientID:     "client-1",
		ScheduledFor: scheduled,
	}}

	body, err := json.Marshal(env)
	assert.NoError(t, err)

	var decoded Envelope
	assert.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, JobFollowUp, decoded.Kind)
	assert.NotNil(t, decoded.FollowUp)
	assert.Nil(t, decoded.Reply)
	assert.Equal(t, "email-1", decoded.FollowUp.EmailID)
	assert.True(t, scheduled.Equal(decoded.FollowUp.ScheduledFor))
}
