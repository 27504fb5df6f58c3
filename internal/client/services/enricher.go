package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userfetcher/internal/client/client"
	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
)

type EnricherConfig struct {
	// BatchSize only controls how often progress is reported.
	BatchSize int
	// Delay follows every per-user request, successful or not.
	Delay time.Duration
}

// CoalitionEnricher attaches coalition membership data to users, one
// request per login, strictly in sequence.
type CoalitionEnricher struct {
	cfg    EnricherConfig
	logger logging.Logger
}

func NewCoalitionEnricher(cfg EnricherConfig, logger logging.Logger) *CoalitionEnricher {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	return &CoalitionEnricher{cfg: cfg, logger: logger}
}

// Catalog loads every coalition once, keyed by id. Failures are logged and
// yield an empty catalog.
func (e *CoalitionEnricher) Catalog(ctx context.Context, s client.Session) map[int]models.Coalition {
	catalog := map[int]models.Coalition{}

	list, err := s.Coalitions(ctx)
	if err != nil {
		e.logger.Error(ctx, "error fetching coalitions", "error", err)
		return catalog
	}
	for _, c := range list {
		catalog[c.ID] = c
	}
	return catalog
}

// Enrich returns an enrichment for every login. The first membership
// returned for a login is used; a login without a usable membership, or
// whose request failed, gets models.DefaultEnrichment. Only context
// cancellation stops the walk early.
func (e *CoalitionEnricher) Enrich(ctx context.Context, s client.Session, logins []string, catalog map[int]models.Coalition, report Reporter) (map[string]models.Enrichment, error) {
	out := make(map[string]models.Enrichment, len(logins))
	found := 0

	for i := 0; i < len(logins); i += e.cfg.BatchSize {
		end := min(i+e.cfg.BatchSize, len(logins))
		report.report(
			fmt.Sprintf("Fetching coalition data for users %d-%d...", i+1, end),
			50+i*30/len(logins),
		)

		for _, login := range logins[i:end] {
			out[login] = e.enrichOne(ctx, s, login, catalog)
			if out[login].CoalitionID != nil {
				found++
			}
			if err := sleep(ctx, e.cfg.Delay); err != nil {
				return nil, err
			}
		}
	}

	e.logger.Info(ctx, "fetched coalition data", "users", found, "of", len(logins))
	return out, nil
}

func (e *CoalitionEnricher) enrichOne(ctx context.Context, s client.Session, login string, catalog map[int]models.Coalition) models.Enrichment {
	memberships, err := s.CoalitionUsers(ctx, login)
	if err != nil {
		e.logger.Error(ctx, "error fetching coalition data", "login", login, "error", err)
		return models.DefaultEnrichment()
	}
	if len(memberships) == 0 || memberships[0].CoalitionID == 0 {
		return models.DefaultEnrichment()
	}
	return models.NewEnrichment(memberships[0], catalog)
}

// ApplyEnrichment writes the coalition fields onto every user. Users whose
// login is missing from m get the defaults.
func ApplyEnrichment(users []models.User, m map[string]models.Enrichment) {
	for _, u := range users {
		en, ok := m[u.Login()]
		if !ok {
			en = models.DefaultEnrichment()
		}
		u.Enrich(en)
	}
}
