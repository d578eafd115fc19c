package entity

import "errors"

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrEmailNotFound    = errors.New("email not found")
	ErrFollowUpNotFound = errors.New("follow-up not found")

	// ErrFollowUpAlreadyPending: corrida benigna — outro ciclo já agendou.
	// Quem chama trata como sucesso idempotente, nunca propaga como falha.
	ErrFollowUpAlreadyPending = errors.New("a pending follow-up already exists for this email")

	// ErrFollowUpTerminal: SENT e CANCELLED são imutáveis
	ErrFollowUpTerminal = errors.New("follow-up is in a terminal state")

	ErrEmptyContent = errors.New("follow-up content is empty")
)
