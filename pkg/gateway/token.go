package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	contractx "github.com/estateplan/intake-agent/agent/contract"
	"github.com/estateplan/intake-agent/pkg/retry"
)

// ErrRateLimited marks a throttled upstream call. Stubs and adapters wrap it
// so the retry predicate can classify without HTTP plumbing.
var ErrRateLimited = errors.New("rate limited")

// TokenSource yields a bearer token for the gateway. Implementations may
// cache; callers treat every returned token as opaque and short-lived.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type clientCredentialsSource struct {
	ts oauth2.TokenSource
}

// NewClientCredentialsSource builds the M2M token capability from the OAuth
// client-credentials grant. Tokens are cached and refreshed by the underlying
// source; httpClient, when non-nil, carries the per-attempt timeout.
func NewClientCredentialsSource(cfg Config, httpClient *http.Client) (TokenSource, error) {
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		return nil, errors.New("token url is required (set it directly or resolve it from discovery)")
	}

	cc := &clientcredentials.Config{
		ClientID:     strings.TrimSpace(cfg.ClientID),
		ClientSecret: strings.TrimSpace(cfg.ClientSecret),
		TokenURL:     tokenURL,
		Scopes:       cfg.Scopes,
	}

	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	return &clientCredentialsSource{ts: cc.TokenSource(ctx)}, nil
}

func (s *clientCredentialsSource) Token(ctx context.Context) (string, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return "", errors.New("token endpoint returned an empty access token")
	}
	return tok.AccessToken, nil
}

// AcquireToken wraps a TokenSource in the shared backoff policy. Rate-limit
// failures retry up to the attempt budget; anything else is fatal and
// returned after the first call.
func AcquireToken(ctx context.Context, src TokenSource, policy retry.Policy) (string, error) {
	token, err := retry.Do(ctx, policy, IsRateLimit, func(ctx context.Context) (string, error) {
		return src.Token(ctx)
	})
	if err != nil {
		return "", classifyUpstream(err)
	}
	return token, nil
}

// classifyUpstream tags exhausted retry budgets so callers can map them to
// an upstream-unavailable response; other errors pass through untouched.
func classifyUpstream(err error) error {
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return fmt.Errorf("%w: %w", contractx.ErrUpstreamUnavailable, err)
	}
	return err
}

// IsRateLimit classifies throttling signals from either the token endpoint
// or the tool gateway.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return retrieveErr.Response.StatusCode == http.StatusTooManyRequests
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests
	}
	return strings.Contains(strings.ToLower(err.Error()), "too many requests")
}

// ResolveTokenEndpoint fetches the OpenID discovery document and returns its
// token_endpoint.
func ResolveTokenEndpoint(ctx context.Context, httpClient *http.Client, discoveryURL string) (string, error) {
	discoveryURL = strings.TrimSpace(discoveryURL)
	if discoveryURL == "" {
		return "", errors.New("discovery url is empty")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("build discovery request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch discovery document: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("read discovery document: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var doc struct {
		TokenEndpoint string `json:"token_endpoint"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode discovery document: %w", err)
	}
	if strings.TrimSpace(doc.TokenEndpoint) == "" {
		return "", errors.New("discovery document has no token_endpoint")
	}
	return doc.TokenEndpoint, nil
}
