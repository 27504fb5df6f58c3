package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://api.intra.42.fr", c.APIBaseURL)
	assert.Equal(t, "Singapore", c.CampusName)
	assert.Equal(t, 64, c.FallbackCampusID)
	assert.Equal(t, 100, c.PageSize)
	assert.Equal(t, 3, c.PageAttempts)
	assert.Equal(t, 2*time.Second, c.PageRetryBase)
	assert.Equal(t, time.Second, c.PageDelay)
	assert.Equal(t, 200*time.Millisecond, c.EnrichDelay)
	assert.Equal(t, "42_users_data.json", c.CachePath)
	assert.Equal(t, "user_fetcher.log", c.LogFile)
	assert.Equal(t, 40, c.ThumbnailSize)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-env", "does-not-exist.env"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, BackendJSON, cfg.CacheBackend)
	assert.Equal(t, LayoutFull, cfg.Layout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad backend", mutate: func(c *Config) { c.CacheBackend = "redis" }, wantErr: true},
		{name: "bad layout", mutate: func(c *Config) { c.Layout = "wide" }, wantErr: true},
		{name: "page size over limit", mutate: func(c *Config) { c.PageSize = 101 }, wantErr: true},
		{name: "no workers", mutate: func(c *Config) { c.ThumbnailWorkers = 0 }, wantErr: true},
		{name: "bad url", mutate: func(c *Config) { c.APIBaseURL = "not a url" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	c := Config{ClientID: "uid"}
	_, err := c.Credentials()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingCredentials))

	c.ClientSecret = "secret"
	creds, err := c.Credentials()
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{ClientID: "uid", ClientSecret: "secret"}, creds)
}
