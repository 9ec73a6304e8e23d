// Package factory talks to the external depositable provisioner.
package factory

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

// Client implements ports.Factory over HTTP.
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

type deployRequest struct {
	Factory string `json:"factory"`
	User    string `json:"user"`
	Owner   string `json:"owner"`
}

type deployResponse struct {
	Address string `json:"address"`
}

// DeployDepositable asks the factory for a new deposit address owned by the
// ledger on behalf of user.
func (c *Client) DeployDepositable(ctx context.Context, factory, user, ownerLedger domain.Address) (domain.Address, error) {
	body, err := json.Marshal(deployRequest{
		Factory: factory.String(),
		User:    user.String(),
		Owner:   ownerLedger.String(),
	})
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/depositables", bytes.NewReader(body))
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("factory call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.ZeroAddress, fmt.Errorf("factory returned %d: %s", resp.StatusCode, detail)
	}

	var out deployResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ZeroAddress, fmt.Errorf("decode response: %w", err)
	}
	return domain.ParseAddress(out.Address)
}
