package session

import (
	"net/http"
	"time"

	"github.com/go-playground/errors/v5"
	"github.com/kelseyhightower/envconfig"
	"github.com/oddslane/session/api"
	"github.com/oddslane/session/authz"
	"github.com/oddslane/session/credstore"
	"golang.org/x/oauth2"
)

// Config is the environment-driven configuration for the client.
type Config struct {
	APIBaseURL           string        `envconfig:"API_BASE_URL" required:"true"`
	APIRequestTimeout    time.Duration `envconfig:"API_REQUEST_TIMEOUT" default:"10s"`
	PermissionCacheTTL   time.Duration `envconfig:"PERMISSION_CACHE_TTL" default:"5m"`
	CredentialFile       string        `envconfig:"CREDENTIAL_FILE" default:".oddslane/credentials"`
	CredentialPassphrase string        `envconfig:"CREDENTIAL_PASSPHRASE"`
}

// LoadConfig reads configuration from ODDSLANE_* environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("oddslane", cfg); err != nil {
		return nil, errors.Wrap(err, "envconfig.Process()")
	}

	return cfg, nil
}

// NewFromConfig wires a Manager with the file credential store and HTTP API
// client described by cfg.
func NewFromConfig(cfg *Config, opts ...Option) (*Manager, error) {
	store, err := credstore.NewFileStore(cfg.CredentialFile, cfg.CredentialPassphrase)
	if err != nil {
		return nil, errors.Wrap(err, "credstore.NewFileStore()")
	}

	opts = append(opts, WithAuthzOptions(authz.WithTTL(cfg.PermissionCacheTTL)))

	m := New(store, func(src oauth2.TokenSource) APIClient {
		return api.NewClient(cfg.APIBaseURL, src,
			api.WithHTTPClient(&http.Client{Timeout: cfg.APIRequestTimeout}))
	}, opts...)

	return m, nil
}
