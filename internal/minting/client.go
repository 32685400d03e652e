package minting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrMintingServiceUnavailable = errors.New("minting service unavailable")

// Client talks to the external minting service over HTTP. The service owns
// the token ledger; this adapter only relays requests and surfaces failures
// verbatim so the caller can abort its own transaction.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a minting client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type createCollectionResponse struct {
	CollectionID string `json:"collection_id"`
}

type mintRequest struct {
	Metadata string `json:"metadata"`
}

type mintResponse struct {
	Serial int64 `json:"serial"`
}

type associateRequest struct {
	Account string `json:"account"`
}

type transferRequest struct {
	Serial int64  `json:"serial"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// CreateCollection creates the NFT collection for an event and returns its
// handle.
func (c *Client) CreateCollection(ctx context.Context, req *CreateCollectionRequest) (string, error) {
	var resp createCollectionResponse
	if err := c.post(ctx, "/collections", req, &resp); err != nil {
		return "", err
	}
	return resp.CollectionID, nil
}

// Mint mints one token in the collection and returns its serial.
func (c *Client) Mint(ctx context.Context, collectionID string, metadata string) (int64, error) {
	var resp mintResponse
	path := fmt.Sprintf("/collections/%s/mint", collectionID)
	if err := c.post(ctx, path, &mintRequest{Metadata: metadata}, &resp); err != nil {
		return 0, err
	}
	return resp.Serial, nil
}

// Associate links the buyer's account with the collection so it can receive
// the token.
func (c *Client) Associate(ctx context.Context, account string, collectionID string) error {
	path := fmt.Sprintf("/collections/%s/associate", collectionID)
	return c.post(ctx, path, &associateRequest{Account: account}, nil)
}

// Transfer moves a minted token to the buyer.
func (c *Client) Transfer(ctx context.Context, collectionID string, serial int64, from, to string) error {
	path := fmt.Sprintf("/collections/%s/transfer", collectionID)
	return c.post(ctx, path, &transferRequest{Serial: serial, From: from, To: to}, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode minting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build minting request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMintingServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("minting service returned %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode minting response: %w", err)
		}
	}
	return nil
}
