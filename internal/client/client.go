package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nurpe/contratos-service/internal/model"
)

// ErrTransport marks network or decode failures, as opposed to errors the
// server answered with.
var ErrTransport = errors.New("transport failure")

// Client talks the contracts API: GET / for the full set, POST / with an
// {action, payload} envelope for mutations. It implements cache.Remote.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

type mutateEnvelope struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

type listResponse struct {
	Contracts []model.Contract `json:"contracts"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) ListContracts(ctx context.Context) ([]model.Contract, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	var out listResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Contracts, nil
}

func (c *Client) CreateContract(ctx context.Context, draft model.Contract) (model.Contract, error) {
	var created model.Contract
	if err := c.post(ctx, mutateEnvelope{Action: "CREATE", Payload: draft}, &created); err != nil {
		return model.Contract{}, err
	}
	return created, nil
}

func (c *Client) UpdateContract(ctx context.Context, contract model.Contract) (model.Contract, error) {
	var updated model.Contract
	if err := c.post(ctx, mutateEnvelope{Action: "UPDATE", Payload: contract}, &updated); err != nil {
		return model.Contract{}, err
	}
	return updated, nil
}

func (c *Client) DeleteContract(ctx context.Context, cui string) error {
	var out deleteResponse
	if err := c.post(ctx, mutateEnvelope{Action: "DELETE", Payload: map[string]string{"id": cui}}, &out); err != nil {
		return err
	}
	return nil
}

func (c *Client) post(ctx context.Context, envelope mutateEnvelope, out interface{}) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	return nil
}
