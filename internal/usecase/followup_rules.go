package usecase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// DefaultThresholdDays: quantos dias depois do envio o follow-up vence
const DefaultThresholdDays = 6

// IsFollowUpDue é o predicado puro da máquina de estados — a mesma regra
// que o scan do scheduler aplica em SQL. Definição canônica: vence em
// sentAt + threshold (variações a partir de "now" eram bug da versão antiga).
//
// Vence quando: email SENT, idade >= threshold e nenhum follow-up
// PENDING ou SENT já existe pra ele.
func IsFollowUpDue(email *entity.Email, followUps []*entity.FollowUp, now time.Time, thresholdDays int) bool {
	if email == nil || email.Status != entity.EmailStatusSent || email.SentAt == nil {
		return false
	}
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}

	due := email.SentAt.AddDate(0, 0, thresholdDays)
	if now.Before(due) {
		return false
	}

	for _, f := range followUps {
		if f.Status == entity.FollowUpStatusPending || f.Status == entity.FollowUpStatusSent {
			return false
		}
	}

	return true
}

// FollowUpDueDate calcula quando um email enviado em sentAt passa a vencer
func FollowUpDueDate(sentAt time.Time, thresholdDays int) time.Time {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	return sentAt.AddDate(0, 0, thresholdDays)
}
