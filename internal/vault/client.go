// Package vault talks to the external custody service. The ledger only ever
// pushes funds in and submits transfer requests; custody state lives entirely
// on the other side.
package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"custodia/pkg/domain"
)

// Client implements ports.Vault over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type transferRequest struct {
	Vault  string `json:"vault"`
	User   string `json:"user"`
	Amount uint64 `json:"amount"`
}

// Transfer pushes amount into custody on behalf of user.
func (c *Client) Transfer(ctx context.Context, vault, user domain.Address, amount uint64) error {
	return c.post(ctx, "/v1/transfers", transferRequest{
		Vault:  vault.String(),
		User:   user.String(),
		Amount: amount,
	})
}

// SubmitTransaction asks the vault to disburse amount to user.
func (c *Client) SubmitTransaction(ctx context.Context, vault, user domain.Address, amount uint64) error {
	return c.post(ctx, "/v1/transactions", transferRequest{
		Vault:  vault.String(),
		User:   user.String(),
		Amount: amount,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vault call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("vault returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
