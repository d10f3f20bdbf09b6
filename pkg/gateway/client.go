package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	"github.com/estateplan/intake-agent/pkg/retry"
)

const (
	defaultMaxPages      = 50
	maxResponseSizeBytes = 2 << 20

	searchToolName = "x_amz_bedrock_agentcore_search"
)

// StatusError is a non-2xx gateway reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway http status=%d body=%s", e.StatusCode, e.Body)
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithMaxPages(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

func WithRetryPolicy(p retry.Policy) ClientOption {
	return func(c *Client) {
		c.retry = p
	}
}

// Client speaks JSON-RPC 2.0 to the tool gateway, presenting a bearer token
// from its TokenSource on every call.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	maxPages   int
	retry      retry.Policy
	nextID     atomic.Int64
}

var _ contractx.ToolLister = (*Client)(nil)

func NewClient(cfg Config, tokens TokenSource, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		maxPages:   cfg.MaxPages,
		retry:      cfg.RetryPolicy(),
	}
	if c.maxPages <= 0 {
		c.maxPages = defaultMaxPages
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type listToolsResult struct {
	Tools      []contractx.Tool `json:"tools"`
	NextCursor string           `json:"nextCursor"`
}

// ListTools walks the paginated tools/list endpoint and returns the
// concatenation of all pages in fetch order. An empty page or a null cursor
// ends the stream; any page error aborts the whole listing and already
// accumulated items are discarded. The walk is capped at the configured page
// budget since the upstream cursor contract is trusted but unverified.
func (c *Client) ListTools(ctx context.Context) ([]contractx.Tool, error) {
	var all []contractx.Tool
	cursor := ""

	for page := 0; ; page++ {
		if page >= c.maxPages {
			return nil, fmt.Errorf("tool listing exceeded %d pages without a terminal cursor", c.maxPages)
		}

		result, err := c.fetchToolPage(ctx, cursor)
		if err != nil {
			return nil, classifyUpstream(err)
		}
		if len(result.Tools) == 0 {
			return all, nil
		}
		all = append(all, result.Tools...)
		if result.NextCursor == "" {
			return all, nil
		}
		cursor = result.NextCursor
	}
}

func (c *Client) fetchToolPage(ctx context.Context, cursor string) (listToolsResult, error) {
	params := map[string]any{}
	if cursor != "" {
		params["cursor"] = cursor
	}

	return retry.Do(ctx, c.retry, IsRateLimit, func(ctx context.Context) (listToolsResult, error) {
		raw, err := c.exec(ctx, "tools/list", params)
		if err != nil {
			return listToolsResult{}, err
		}
		var result listToolsResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return listToolsResult{}, fmt.Errorf("decode tools/list result: %w", err)
		}
		return result, nil
	})
}

// CallTool invokes one gateway tool and returns the raw JSON-RPC result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tool name is empty")
	}

	params := map[string]any{
		"name": name,
	}
	if len(args) > 0 {
		params["arguments"] = args
	}

	return retry.Do(ctx, c.retry, IsRateLimit, func(ctx context.Context) (json.RawMessage, error) {
		return c.exec(ctx, "tools/call", params)
	})
}

// SearchTools runs the gateway's semantic tool search and decodes the tool
// list embedded in its first content block.
func (c *Client) SearchTools(ctx context.Context, query string) ([]contractx.Tool, error) {
	raw, err := c.CallTool(ctx, searchToolName, map[string]any{"query": query})
	if err != nil {
		return nil, err
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	if len(result.Content) == 0 || strings.TrimSpace(result.Content[0].Text) == "" {
		return nil, nil
	}

	var tools []contractx.Tool
	if err := json.Unmarshal([]byte(result.Content[0].Text), &tools); err != nil {
		return nil, fmt.Errorf("decode search tool list: %w", err)
	}
	return tools, nil
}

func (c *Client) exec(ctx context.Context, method string, params any) (json.RawMessage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s request: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("gateway rpc error code=%d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	return envelope.Result, nil
}
