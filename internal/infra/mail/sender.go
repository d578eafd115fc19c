package mail

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = user
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send envia o email e devolve o Message-Id gerado. Erro aqui é sempre
// retryável (rede/auth do SMTP) — quem chama decide o backoff.
func (s *EmailSender) Send(to, subject, body string) (string, error) {
	messageID := fmt.Sprintf("<%s@ligue-crm>", uuid.New().String())

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-Id", messageID)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return messageID, nil
}
