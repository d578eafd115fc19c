package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const BaseURL = "https://api.openai.com/v1"

var (
	// ErrGenerationFailed: o modelo respondeu mas não veio conteúdo utilizável
	ErrGenerationFailed = errors.New("openai: no content generated")

	// ErrMalformedResponse: a análise não bateu com a estrutura esperada
	ErrMalformedResponse = errors.New("openai: malformed analysis response")
)

type Client struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
		Model:      model,
	}
}

// DraftFollowUp gera o rascunho do follow-up a partir do email original.
// Sem retry aqui — a política de retentativa é do orquestrador.
func (c *Client) DraftFollowUp(ctx context.Context, original OriginalEmail) (string, error) {
	prompt := fmt.Sprintf(`Generate a professional follow-up email based on this original email:

To: %s
Subject: %s
Content: %s

The follow-up should:
1. Be professional and courteous
2. Reference the original email
3. Ask for a response or next steps
4. Be concise and clear
5. Maintain the same tone as the original email`,
		original.Recipient, original.Subject, original.Body)

	content, err := c.complete(ctx, chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// DraftInitialEmail gera o email de prospecção inicial a partir do
// contexto do lead. Tom e tamanho vêm do chamador, com defaults sensatos.
func (c *Client) DraftInitialEmail(ctx context.Context, input InitialEmailInput) (string, error) {
	tone := input.Tone
	if tone == "" {
		tone = "professional"
	}
	length := input.Length
	if length == "" {
		length = "medium"
	}

	system := "You are a professional email writer. Write clear, concise, and effective emails."
	user := fmt.Sprintf(`Write a %s email to %s about the following: %s
The email should be %s in length.
Include a clear subject line.
Format the email with proper greeting and closing.`,
		tone, input.ClientName, input.Context, length)

	return c.complete(ctx, chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	})
}

// AnalyzeReply classifica a resposta recebida (sentimento, pontos chave,
// ações e se precisamos responder)
func (c *Client) AnalyzeReply(ctx context.Context, original OriginalEmail, reply string) (*ReplyAnalysis, error) {
	system := `You are an email analysis expert. Analyze the email reply below in the context of the original email and respond ONLY with a JSON object in this exact shape:
{"sentiment": "positive|negative|neutral", "key_points": ["..."], "action_items": ["..."], "needs_response": true|false, "priority": "high|medium|low"}`

	user := fmt.Sprintf("Original Subject: %s\nOriginal Content: %s\n\nReply:\n%s",
		original.Subject, original.Body, reply)

	content, err := c.complete(ctx, chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	var analysis ReplyAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if analysis.Sentiment == "" {
		return nil, ErrMalformedResponse
	}

	return &analysis, nil
}

// DraftChainReply gera a continuação da conversa quando a resposta pede retorno
func (c *Client) DraftChainReply(ctx context.Context, original OriginalEmail, reply string, analysis *ReplyAnalysis) (string, error) {
	system := `You are an email writing expert. Generate a reply email based on the original email, the reply received and the analysis provided. The email should:
- Be professional and courteous
- Address any unanswered questions
- Provide any missing information
- Maintain a natural conversation flow`

	analysisJSON, _ := json.Marshal(analysis)
	user := fmt.Sprintf("Original Email:\n%s\n\nReply Received:\n%s\n\nAnalysis:\n%s",
		original.Body, reply, string(analysisJSON))

	content, err := c.complete(ctx, chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", BaseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: falha na chamada: %w", err)
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: resposta ilegível: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("openai: API retornou %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("openai: API retornou %d", resp.StatusCode)
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrGenerationFailed
	}

	return out.Choices[0].Message.Content, nil
}
