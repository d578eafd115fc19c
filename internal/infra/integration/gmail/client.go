package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const BaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

type Client struct {
	HTTPClient  *http.Client
	AccessToken string
}

func NewClient(accessToken string) *Client {
	return &Client{
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		AccessToken: accessToken,
	}
}

// ListUnreadInThread devolve as mensagens não lidas da thread — é assim que o
// polling de respostas descobre que alguém respondeu
func (c *Client) ListUnreadInThread(ctx context.Context, threadID string) ([]ThreadMessage, error) {
	url := fmt.Sprintf("%s/threads/%s?format=metadata", BaseURL, threadID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gmail: falha ao buscar thread: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gmail: API retornou %d para thread %s", resp.StatusCode, threadID)
	}

	var thread threadResponse
	if err := json.NewDecoder(resp.Body).Decode(&thread); err != nil {
		return nil, fmt.Errorf("gmail: resposta ilegível: %w", err)
	}

	var out []ThreadMessage
	for _, msg := range thread.Messages {
		unread := false
		for _, label := range msg.LabelIDs {
			if label == "UNREAD" {
				unread = true
				break
			}
		}
		if !unread {
			continue
		}

		internal, _ := strconv.ParseInt(msg.InternalDate, 10, 64)
		tm := ThreadMessage{
			MessageID:    msg.ID,
			InternalDate: internal,
			Unread:       true,
		}
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "From":
				tm.From = h.Value
			case "Subject":
				tm.Subject = h.Value
			}
		}
		out = append(out, tm)
	}

	return out, nil
}
