package gmail

// ThreadMessage é a visão mínima de uma mensagem da thread que o
// reconciliador de respostas precisa
type ThreadMessage struct {
	MessageID    string `json:"message_id"`
	From         string `json:"from"`
	Subject      string `json:"subject"`
	InternalDate int64  `json:"internal_date"` // epoch millis
	Unread       bool   `json:"unread"`
}

// --- Formato da API do Gmail (users.threads.get) ---

type threadResponse struct {
	ID       string      `json:"id"`
	Messages []threadMsg `json:"messages"`
}

type threadMsg struct {
	ID           string       `json:"id"`
	LabelIDs     []string     `json:"labelIds"`
	InternalDate string       `json:"internalDate"`
	Payload      gmailPayload `json:"payload"`
}

type gmailPayload struct {
	Headers []gmailHeader `json:"headers"`
}

type gmailHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
