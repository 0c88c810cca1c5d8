// internal/infra/solana/rpc_client.go
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// TokenProgramID is the SPL Token program.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// TokenAccountsRPC lists token accounts with jsonParsed encoding.
// blocto の client 層は base64 固定で decimals を返さないため、ここだけ自前の JSON-RPC を使う。
type TokenAccountsRPC interface {
	GetTokenAccountsByOwner(ctx context.Context, owner string, programID string, commitment string) (GetTokenAccountsByOwnerResult, error)
}

// JSONRPCClient is a minimal JSON-RPC 2.0 client for the jsonParsed token account listing.
type JSONRPCClient struct {
	Endpoint string
	HTTP     *http.Client
}

var _ TokenAccountsRPC = (*JSONRPCClient)(nil)

// NewJSONRPCClient creates a Solana JSON-RPC client for endpoint.
func NewJSONRPCClient(endpoint string) *JSONRPCClient {
	return &JSONRPCClient{
		Endpoint: strings.TrimSpace(endpoint),
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

// JSON-RPC 2.0 envelope. 1 リクエスト 1 呼び出し（batch は使わない）。
type jsonrpcCall struct {
	Version string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type jsonrpcReply struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("solana rpc: node error %d: %s", e.Code, e.Message)
}

var callSeq atomic.Uint64

func (c *JSONRPCClient) call(ctx context.Context, method string, params []any, out any) error {
	if c == nil || c.HTTP == nil || c.Endpoint == "" {
		return fmt.Errorf("solana rpc: client not configured")
	}

	id := callSeq.Add(1)
	body, err := json.Marshal(jsonrpcCall{Version: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("solana rpc: %s: encode: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("solana rpc: %s: build request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("solana rpc: %s: %w", method, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode/100 != 2 {
		return fmt.Errorf("solana rpc: %s: http status=%d", method, httpResp.StatusCode)
	}

	var reply jsonrpcReply
	if err := json.NewDecoder(httpResp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("solana rpc: %s: decode: %w", method, err)
	}
	if reply.Error != nil {
		return reply.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("solana rpc: %s: result: %w", method, err)
	}
	return nil
}

// GetTokenAccountsByOwnerResult is the jsonParsed result of getTokenAccountsByOwner.
type GetTokenAccountsByOwnerResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value []KeyedTokenAccount `json:"value"`
}

// KeyedTokenAccount is one token account with its address.
type KeyedTokenAccount struct {
	Pubkey  string            `json:"pubkey"`
	Account ParsedTokenHolder `json:"account"`
}

type ParsedTokenHolder struct {
	Owner string          `json:"owner"` // token program
	Data  ParsedTokenData `json:"data"`
}

type ParsedTokenData struct {
	Program string `json:"program"`
	Parsed  struct {
		Type string          `json:"type"`
		Info TokenHolderInfo `json:"info"`
	} `json:"parsed"`
}

// TokenHolderInfo: tokenAmount.amount は base units の文字列整数。
type TokenHolderInfo struct {
	Mint        string `json:"mint"`
	Owner       string `json:"owner"`
	TokenAmount struct {
		Amount   string `json:"amount"`
		Decimals int    `json:"decimals"`
	} `json:"tokenAmount"`
}

// GetTokenAccountsByOwner lists the accounts of owner under programID (default: SPL Token).
func (c *JSONRPCClient) GetTokenAccountsByOwner(ctx context.Context, owner string, programID string, commitment string) (GetTokenAccountsByOwnerResult, error) {
	var out GetTokenAccountsByOwnerResult

	addr := strings.TrimSpace(owner)
	if addr == "" {
		return out, fmt.Errorf("solana rpc: owner is empty")
	}
	if programID == "" {
		programID = TokenProgramID
	}
	if commitment == "" {
		commitment = "finalized"
	}

	err := c.call(ctx, "getTokenAccountsByOwner", []any{
		addr,
		map[string]string{"programId": programID},
		map[string]string{"commitment": commitment, "encoding": "jsonParsed"},
	}, &out)
	if err != nil {
		return GetTokenAccountsByOwnerResult{}, err
	}
	return out, nil
}
