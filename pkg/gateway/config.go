package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/estateplan/intake-agent/pkg/retry"
)

// Config holds everything needed to reach the tool gateway and its OAuth
// token endpoint. TokenURL may be left empty when Region and UserPoolID are
// set; the endpoint is then resolved from the provider's discovery document.
type Config struct {
	URL          string `envconfig:"URL" split_words:"true" required:"true"`
	ClientID     string `envconfig:"CLIENT_ID" split_words:"true" required:"true"`
	ClientSecret string `envconfig:"CLIENT_SECRET" split_words:"true" required:"true"`

	TokenURL   string   `envconfig:"TOKEN_URL" split_words:"true"`
	Region     string   `envconfig:"REGION" split_words:"true" default:"us-east-1"`
	UserPoolID string   `envconfig:"USER_POOL_ID" split_words:"true"`
	Scopes     []string `envconfig:"SCOPES" split_words:"true"`

	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	MaxPages int           `envconfig:"MAX_PAGES" split_words:"true" default:"50"`

	RetryMaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" split_words:"true" default:"3"`
	RetryBaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" split_words:"true" default:"1s"`
	RetryJitterMax   time.Duration `envconfig:"RETRY_JITTER_MAX" split_words:"true" default:"1s"`
}

func (c Config) Validate() error {
	gatewayURL := strings.TrimSpace(c.URL)
	if gatewayURL == "" {
		return errors.New("gateway url is required")
	}
	if _, err := url.ParseRequestURI(gatewayURL); err != nil {
		return fmt.Errorf("invalid gateway url: %w", err)
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return errors.New("oauth client id is required")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		return errors.New("oauth client secret is required")
	}
	if strings.TrimSpace(c.TokenURL) == "" && strings.TrimSpace(c.UserPoolID) == "" {
		return errors.New("either token url or user pool id is required")
	}
	return nil
}

// DiscoveryURL derives the OpenID discovery document location from the
// Cognito region and user pool id.
func (c Config) DiscoveryURL() string {
	region := strings.TrimSpace(c.Region)
	poolID := strings.TrimSpace(c.UserPoolID)
	if region == "" || poolID == "" {
		return ""
	}
	return fmt.Sprintf(
		"https://cognito-idp.%s.amazonaws.com/%s/.well-known/openid-configuration",
		region, poolID,
	)
}

// RetryPolicy builds the backoff policy shared by token acquisition and
// gateway calls.
func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.RetryMaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
		JitterMax:   c.RetryJitterMax,
	}
}

// MaskSecret renders a credential safe for logs, keeping just enough of the
// ends to correlate against a provider console.
func MaskSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	if len(secret) <= 10 {
		return "***masked***"
	}
	return secret[:5] + "..." + secret[len(secret)-5:]
}
