package openai

// OriginalEmail é o que o gerador precisa saber do email de origem
type OriginalEmail struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Recipient string `json:"recipient"`
}

// InitialEmailInput parametriza o rascunho de prospecção inicial
type InitialEmailInput struct {
	ClientName string `json:"client_name"`
	Context    string `json:"context"`
	Tone       string `json:"tone,omitempty"`   // professional, friendly, formal
	Length     string `json:"length,omitempty"` // short, medium, long
}

// ReplyAnalysis é a estrutura que exigimos do modelo (response_format: json_object)
type ReplyAnalysis struct {
	Sentiment     string   `json:"sentiment"` // positive, negative, neutral
	KeyPoints     []string `json:"key_points"`
	ActionItems   []string `json:"action_items"`
	NeedsResponse bool     `json:"needs_response"`
	Priority      string   `json:"priority"` // high, medium, low
}

// --- Formato da API de chat completions ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}
