// Package journalapi is the HTTP client the payment service uses to append
// settled transactions to the transaction service's journal. A timeout
// here is indistinguishable from a failed append: the entry may have been
// stored with only the response lost, which is exactly why the journal's
// append is idempotent.
package journalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

const defaultTimeout = 5 * time.Second

// Client appends journal entries over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the transaction API at baseURL (e.g.
// "http://transaction-api:8082/api").
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Append posts the entry to the transaction service and returns the stored
// copy. Safe to retry: the journal upserts by entry id.
func (c *Client) Append(ctx context.Context, accountID string, tx domain.Transaction) (*domain.Transaction, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/transactions/%s", c.baseURL, url.PathEscape(accountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("transaction api returned %d: %s", resp.StatusCode, snippet)
	}
	var stored domain.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("decode transaction response: %w", err)
	}
	return &stored, nil
}
