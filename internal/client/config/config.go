package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/go-playground/validator/v10"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	LayoutFull    = "full"
	LayoutCompact = "compact"
)

// Config holds runtime settings for the fetcher front-ends.
type Config struct {
	APIBaseURL string `validate:"required,url"`
	TokenURL   string `validate:"required,url"`

	ClientID     string
	ClientSecret string

	CampusName       string `validate:"required"`
	FallbackCampusID int    `validate:"gt=0"`
	CursusID         int

	PageSize      int           `validate:"gt=0,lte=100"`
	PageAttempts  int           `validate:"gt=0"`
	PageRetryBase time.Duration `validate:"gt=0"`
	PageDelay     time.Duration

	EnrichBatchSize int `validate:"gt=0"`
	EnrichDelay     time.Duration

	CacheBackend string `validate:"oneof=json sqlite"`
	CachePath    string `validate:"required"`

	LogFile  string `validate:"required"`
	LogLevel string

	ThumbnailTimeout time.Duration `validate:"gt=0"`
	ThumbnailWorkers int           `validate:"gt=0"`
	ThumbnailSize    int           `validate:"gt=0"`

	Layout string `validate:"oneof=full compact"`
}

// LoadDefaults populates c with the values the fetcher was built around.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.intra.42.fr"
	c.TokenURL = "https://api.intra.42.fr/oauth/token"
	c.CampusName = "Singapore"
	c.FallbackCampusID = 64
	c.CursusID = 21
	c.PageSize = 100
	c.PageAttempts = 3
	c.PageRetryBase = 2 * time.Second
	c.PageDelay = time.Second
	c.EnrichBatchSize = 10
	c.EnrichDelay = 200 * time.Millisecond
	c.CacheBackend = BackendJSON
	c.CachePath = "42_users_data.json"
	c.LogFile = "user_fetcher.log"
	c.LogLevel = "info"
	c.ThumbnailTimeout = 10 * time.Second
	c.ThumbnailWorkers = 8
	c.ThumbnailSize = 40
	c.Layout = LayoutFull
}

// LoadConfig builds a Config from defaults, then JSON, then environment,
// then flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

var validate = validator.New()

// Validate checks every setting except the credentials, which are only
// required once a fetch is requested (see Credentials).
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Credentials returns the API credentials, or an error wrapping
// models.ErrMissingCredentials when either one is unset.
func (c *Config) Credentials() (models.Credentials, error) {
	creds := models.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
	if err := creds.Validate(); err != nil {
		return models.Credentials{}, err
	}
	return creds, nil
}
