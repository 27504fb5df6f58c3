package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/userfetcher/internal/flagx"
	"github.com/dmitrijs2005/userfetcher/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Zero values
// leave the corresponding setting untouched.
type JsonConfig struct {
	APIBaseURL       string         `json:"api_base_url"`
	TokenURL         string         `json:"token_url"`
	CampusName       string         `json:"campus_name"`
	FallbackCampusID int            `json:"fallback_campus_id"`
	CursusID         int            `json:"cursus_id"`
	PageSize         int            `json:"page_size"`
	PageAttempts     int            `json:"page_attempts"`
	PageRetryBase    timex.Duration `json:"page_retry_base"`
	PageDelay        timex.Duration `json:"page_delay"`
	EnrichBatchSize  int            `json:"enrich_batch_size"`
	EnrichDelay      timex.Duration `json:"enrich_delay"`
	CacheBackend     string         `json:"cache_backend"`
	CachePath        string         `json:"cache_path"`
	LogFile          string         `json:"log_file"`
	LogLevel         string         `json:"log_level"`
	ThumbnailTimeout timex.Duration `json:"thumbnail_timeout"`
	ThumbnailWorkers int            `json:"thumbnail_workers"`
	ThumbnailSize    int            `json:"thumbnail_size"`
	Layout           string         `json:"layout"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// It panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.TokenURL, jc.TokenURL)
	setString(&cfg.CampusName, jc.CampusName)
	setInt(&cfg.FallbackCampusID, jc.FallbackCampusID)
	setInt(&cfg.CursusID, jc.CursusID)
	setInt(&cfg.PageSize, jc.PageSize)
	setInt(&cfg.PageAttempts, jc.PageAttempts)
	if jc.PageRetryBase.Duration != 0 {
		cfg.PageRetryBase = jc.PageRetryBase.Duration
	}
	if jc.PageDelay.Duration != 0 {
		cfg.PageDelay = jc.PageDelay.Duration
	}
	setInt(&cfg.EnrichBatchSize, jc.EnrichBatchSize)
	if jc.EnrichDelay.Duration != 0 {
		cfg.EnrichDelay = jc.EnrichDelay.Duration
	}
	setString(&cfg.CacheBackend, jc.CacheBackend)
	setString(&cfg.CachePath, jc.CachePath)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.ThumbnailTimeout.Duration != 0 {
		cfg.ThumbnailTimeout = jc.ThumbnailTimeout.Duration
	}
	setInt(&cfg.ThumbnailWorkers, jc.ThumbnailWorkers)
	setInt(&cfg.ThumbnailSize, jc.ThumbnailSize)
	setString(&cfg.Layout, jc.Layout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
