package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userfetcher/internal/client/client"
	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
	"github.com/google/uuid"
)

// SnapshotSaver persists the result of a fetch cycle.
type SnapshotSaver interface {
	Save(ctx context.Context, s models.Snapshot) error
}

// FetchService runs one full fetch cycle: token, campus, coalition
// catalog, user pages, enrichment and cache write.
type FetchService struct {
	client   client.Client
	campus   *CampusResolver
	pager    *UserPager
	enricher *CoalitionEnricher
	cache    SnapshotSaver
	logger   logging.Logger
	now      func() time.Time
}

func NewFetchService(c client.Client, campus *CampusResolver, pager *UserPager, enricher *CoalitionEnricher, cache SnapshotSaver, logger logging.Logger) *FetchService {
	return &FetchService{
		client:   c,
		campus:   campus,
		pager:    pager,
		enricher: enricher,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Fetch runs the cycle on the calling goroutine, sending progress to
// progress in order. It never closes progress. Authentication and paging
// failures abort the cycle; a failed cache write is logged and the fetched
// snapshot is still returned.
func (f *FetchService) Fetch(ctx context.Context, creds models.Credentials, progress chan<- Progress) (*models.Snapshot, error) {
	log := f.logger.With("cycle", uuid.NewString())

	report := Reporter(func(p Progress) {
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	})
	if progress == nil {
		report = nil
	}

	report.report("Authenticating with 42 API...", 0)
	log.Info(ctx, "starting authentication")
	token, err := f.client.Authenticate(ctx, creds)
	if err != nil {
		log.Error(ctx, "authentication failed", "error", err)
		return nil, err
	}
	session := f.client.Session(ctx, token)

	report.report(fmt.Sprintf("Fetching %s campus ID...", f.campus.name), 5)
	campusID := f.campus.Resolve(ctx, session)
	log.Info(ctx, "using campus", "id", campusID)

	report.report("Fetching coalitions data...", 10)
	catalog := f.enricher.Catalog(ctx, session)
	log.Info(ctx, "fetched coalitions", "count", len(catalog))

	users, logins, err := f.pager.FetchAll(ctx, session, campusID, report)
	if err != nil {
		log.Error(ctx, "request failed", "error", err)
		return nil, err
	}

	report.report(fmt.Sprintf("Fetching coalition data for %d users...", len(logins)), 50)
	enrichment, err := f.enricher.Enrich(ctx, session, logins, catalog, report)
	if err != nil {
		log.Error(ctx, "enrichment interrupted", "error", err)
		return nil, err
	}
	ApplyEnrichment(users, enrichment)

	if users == nil {
		users = []models.User{}
	}
	snap := &models.Snapshot{Timestamp: f.now(), Users: users}

	if f.cache != nil {
		if err := f.cache.Save(ctx, *snap); err != nil {
			log.Error(ctx, "failed to save cache", "error", err)
		} else {
			log.Info(ctx, "saved users to cache", "count", len(users))
		}
	}

	report.report(fmt.Sprintf("Fetch complete. Retrieved %d users.", len(users)), 100)
	return snap, nil
}
