package usecase

import (
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotPending     = "FOLLOWUP_NOT_PENDING"
	CodeEmptyContent   = "EMPTY_CONTENT"
	CodeAdapterFailure = "ADAPTER_FAILURE"
	CodeDatabaseError  = "DATABASE_ERROR"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// HTTPStatus traduz a taxonomia de erros para o código HTTP — os handlers
// só repassam, a decisão mora aqui
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrEmailNotFound),
		errors.Is(err, entity.ErrFollowUpNotFound),
		errors.Is(err, entity.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrEmptyContent),
		errors.Is(err, entity.ErrFollowUpTerminal):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrFollowUpAlreadyPending):
		return http.StatusConflict
	}

	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case CodeValidation, CodeNotPending, CodeEmptyContent:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeUnauthorized:
			return http.StatusUnauthorized
		}
	}

	return http.StatusInternalServerError
}
