package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func joinValidationErrors(errs []ValidationError) *DomainError {
	msg := "validation failed: "
	for _, e := range errs {
		msg += e.Field + " (" + e.Message + "), "
	}
	return &DomainError{Code: CodeValidation, Message: strings.TrimSuffix(msg, ", ")}
}

func ValidateComposeEmailInput(input ComposeEmailInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Recipient) == "" {
		errors = append(errors, ValidationError{"recipient", "is required"})
	} else if _, err := mail.ParseAddress(input.Recipient); err != nil {
		errors = append(errors, ValidationError{"recipient", "is invalid"})
	}

	if strings.TrimSpace(input.Subject) == "" {
		errors = append(errors, ValidationError{"subject", "is required"})
	} else if len(input.Subject) > 500 {
		errors = append(errors, ValidationError{"subject", "must not exceed 500 characters"})
	}

	if strings.TrimSpace(input.Body) == "" {
		errors = append(errors, ValidationError{"body", "is required"})
	}

	return errors
}

func ValidateCreateFollowUpInput(input CreateFollowUpInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.EmailID) == "" {
		errors = append(errors, ValidationError{"email_id", "is required"})
	}

	return errors
}

func ValidateReconcileReplyInput(input ReconcileReplyInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.ThreadID) == "" {
		errors = append(errors, ValidationError{"thread_id", "is required"})
	}
	if strings.TrimSpace(input.MessageID) == "" {
		errors = append(errors, ValidationError{"message_id", "is required"})
	}

	return errors
}

func ValidateCreateClientInput(input CreateClientInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.CompanyName) == "" {
		errors = append(errors, ValidationError{"company_name", "is required"})
	}
	if strings.TrimSpace(input.LeadName) == "" {
		errors = append(errors, ValidationError{"lead_name", "is required"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Status != "" && !isValidClientStatus(input.Status) {
		errors = append(errors, ValidationError{"status", "must be NEW, CONTACTED, PROPOSAL_SENT, NEGOTIATING, CLOSED or LOST"})
	}

	if input.LastContactDate != "" && !isValidDate(input.LastContactDate) {
		errors = append(errors, ValidationError{"last_contact_date", "must be a valid date"})
	}
	if input.NextFollowUp != "" && !isValidDate(input.NextFollowUp) {
		errors = append(errors, ValidationError{"next_follow_up", "must be a valid date"})
	}

	return errors
}

func isValidClientStatus(status string) bool {
	switch status {
	case "NEW", "CONTACTED", "PROPOSAL_SENT", "NEGOTIATING", "CLOSED", "LOST":
		return true
	}
	return false
}

func isValidDate(dateStr string) bool {
	_, ok := parseDate(dateStr)
	return ok
}

// parseDate aceita os dois formatos que o front manda: só data e RFC3339
func parseDate(dateStr string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, true
	}
	return time.Time{}, false
}
