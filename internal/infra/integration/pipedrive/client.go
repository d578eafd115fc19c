package pipedrive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Sincronização best-effort com o funil do Pipedrive. Falha aqui nunca
// bloqueia o fluxo principal — quem chama só loga.
type Client struct {
	HTTPClient *http.Client
	apiToken   string
	baseURL    string
}

func NewClient(apiToken, domain string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		apiToken:   apiToken,
		baseURL:    fmt.Sprintf("https://%s.pipedrive.com/api/v1", domain),
	}
}

func (c *Client) CreatePerson(ctx context.Context, input CreatePersonInput) (int, error) {
	body := map[string]interface{}{
		"name":  input.Name,
		"email": []string{input.Email},
	}
	if input.OrgID > 0 {
		body["org_id"] = input.OrgID
	}
	return c.post(ctx, "/persons", body)
}

func (c *Client) CreateOrganization(ctx context.Context, name string) (int, error) {
	return c.post(ctx, "/organizations", map[string]interface{}{"name": name})
}

func (c *Client) CreateDeal(ctx context.Context, input CreateDealInput) (int, error) {
	body := map[string]interface{}{
		"title":     input.Title,
		"person_id": input.PersonID,
	}
	if input.OrgID > 0 {
		body["org_id"] = input.OrgID
	}
	if input.Value > 0 {
		body["value"] = input.Value
	}
	if input.StageID > 0 {
		body["stage_id"] = input.StageID
	}
	return c.post(ctx, "/deals", body)
}

// Funil do CRM -> stage do pipeline padrão do Pipedrive. LOST fica de
// fora: negócio perdido é status de deal, não stage.
var stageByStatus = map[string]int{
	"NEW":           1,
	"CONTACTED":     2,
	"PROPOSAL_SENT": 3,
	"NEGOTIATING":   4,
	"CLOSED":        5,
}

// StageForStatus devolve 0 quando o status não tem stage correspondente
func StageForStatus(status string) int {
	return stageByStatus[status]
}

func (c *Client) UpdateDealStage(ctx context.Context, dealID, stageID int) error {
	if c.apiToken == "" {
		log.Println("⚠️ Pipedrive: API_TOKEN não configurado")
		return fmt.Errorf("pipedrive não configurado")
	}

	payload, _ := json.Marshal(map[string]interface{}{"stage_id": stageID})
	url := fmt.Sprintf("%s/deals/%d?api_token=%s", c.baseURL, dealID, c.apiToken)

	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("pipedrive: API retornou %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]interface{}) (int, error) {
	if c.apiToken == "" {
		log.Println("⚠️ Pipedrive: API_TOKEN não configurado")
		return 0, fmt.Errorf("pipedrive não configurado")
	}

	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("%s%s?api_token=%s", c.baseURL, endpoint, c.apiToken)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("pipedrive: resposta ilegível: %w", err)
	}

	if resp.StatusCode >= 300 || !out.Success {
		return 0, fmt.Errorf("pipedrive: API retornou %d em %s", resp.StatusCode, endpoint)
	}

	return out.Data.ID, nil
}
