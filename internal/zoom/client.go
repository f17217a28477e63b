// Package zoom is the recording provider adapter. It owns the OAuth2
// account-credentials token, lists recorded meetings, and downloads the
// per-participant audio tracks that become the channels of the combined
// file.
package zoom

import (
	"time"

	"github.com/skillsenselab/meetscribe/internal/httpx"
	"github.com/skillsenselab/meetscribe/internal/logging"
)

const (
	defaultBaseURL = "https://api.zoom.us/v2"
	defaultAuthURL = "https://zoom.us/oauth"

	// tokenExpirySkew is subtracted from the reported token lifetime so a
	// token is never used right at its expiry boundary.
	tokenExpirySkew = 30 * time.Second
)

// Config configures the Zoom client.
type Config struct {
	// AccountID is the Zoom account identifier.
	AccountID string `mapstructure:"account_id" validate:"required"`
	// ClientID is the server-to-server OAuth app client id.
	ClientID string `mapstructure:"client_id" validate:"required"`
	// ClientSecret is the OAuth app client secret.
	ClientSecret string `mapstructure:"client_secret" validate:"required"`
	// BaseURL overrides the API base URL. Intended for tests.
	BaseURL string `mapstructure:"base_url"`
	// AuthURL overrides the OAuth base URL. Intended for tests.
	AuthURL string `mapstructure:"auth_url"`
	// Timeout bounds each API call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.AuthURL == "" {
		c.AuthURL = defaultAuthURL
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Client talks to the Zoom REST API.
type Client struct {
	cfg  Config
	api  *httpx.Client
	auth *httpx.Client
	log  *logging.Logger

	// token state is owned here; calls are sequential so no locking is
	// needed (single reader/writer per run).
	token       string
	tokenExpiry time.Time

	now func() time.Time
}

// NewClient creates a Zoom client. The token is fetched lazily on first use.
func NewClient(cfg Config, log *logging.Logger) *Client {
	cfg.ApplyDefaults()
	return &Client{
		cfg:  cfg,
		api:  httpx.New(httpx.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}),
		auth: httpx.New(httpx.Config{BaseURL: cfg.AuthURL, Timeout: cfg.Timeout}),
		log:  log.WithComponent("zoom"),
		now:  time.Now,
	}
}
