package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"memescout/internal/ratelimit"
)

const (
	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
	baseBackoff    = 400 * time.Millisecond
)

// Client is a minimal Solana JSON-RPC client.
type Client struct {
	rpcURL     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *logrus.Logger
}

// NewClient creates a Solana RPC client.
func NewClient(rpcURL string, rps float64, logger *logrus.Logger) *Client {
	return &Client{
		rpcURL:     rpcURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    ratelimit.New(rps),
		logger:     logger,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type accountInfoResponse struct {
	Result *struct {
		Value *struct {
			Data  []string `json:"data"` // [payload, encoding]
			Owner string   `json:"owner"`
		} `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

// MintAuthorities fetches and parses the SPL mint account for the given token
// address. The address must be a 32-byte base58 public key. A nil MintInfo
// with nil error never occurs; lookup failures return an error the caller is
// expected to treat as absent security information.
func (c *Client) MintAuthorities(ctx context.Context, tokenAddress string) (*MintInfo, error) {
	raw, err := base58.Decode(tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("decode token address: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("token address is %d bytes, want 32", len(raw))
	}

	data, err := c.accountData(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	info, err := ParseMintAccount(data)
	if err != nil {
		return nil, fmt.Errorf("parse mint account %s: %w", tokenAddress, err)
	}
	return info, nil
}

func (c *Client) accountData(ctx context.Context, address string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := baseBackoff * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			c.logger.WithError(lastErr).WithFields(logrus.Fields{
				"address": address,
				"attempt": attempt,
			}).Warn("Account lookup failed, retrying")
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		data, err := c.doGetAccountInfo(ctx, address)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) doGetAccountInfo(ctx context.Context, address string) ([]byte, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getAccountInfo",
		Params: []interface{}{
			address,
			map[string]string{"encoding": "base64"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc call: status %d", resp.StatusCode)
	}

	var parsed accountInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if parsed.Result == nil || parsed.Result.Value == nil {
		return nil, fmt.Errorf("account %s not found", address)
	}
	if len(parsed.Result.Value.Data) < 1 {
		return nil, fmt.Errorf("account %s has no data", address)
	}

	data, err := base64.StdEncoding.DecodeString(parsed.Result.Value.Data[0])
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	return data, nil
}
