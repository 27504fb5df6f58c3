package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userfetcher/internal/client/client"
	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
	"github.com/sethvargo/go-retry"
)

type PagerConfig struct {
	PageSize  int
	Attempts  int
	RetryBase time.Duration
	PageDelay time.Duration
}

// UserPager downloads every page of a campus's non-staff users.
type UserPager struct {
	cfg    PagerConfig
	logger logging.Logger
}

func NewUserPager(cfg PagerConfig, logger logging.Logger) *UserPager {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	// go-retry turns a zero base into an effectively infinite wait.
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Millisecond
	}
	return &UserPager{cfg: cfg, logger: logger}
}

// FetchAll walks pages starting at 1. The page count is assumed to be one
// until the X-Total/X-Per-Page headers say otherwise and is recomputed
// after every page. A page is attempted up to cfg.Attempts times with
// exponential backoff; malformed responses and cancellation are not
// retried. When attempts run out the whole walk fails with the
// last error. It returns the users in page order and their non-empty logins.
func (p *UserPager) FetchAll(ctx context.Context, s client.Session, campusID int, report Reporter) ([]models.User, []string, error) {
	var (
		users  []models.User
		logins []string
	)

	totalPages := 1
	for page := 1; page <= totalPages; page++ {
		report.report(fmt.Sprintf("Fetching users page %d/%d...", page, totalPages), pagePercent(page, totalPages))

		res, err := p.fetchPage(ctx, s, campusID, page, totalPages, report)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch users page %d: %w", page, err)
		}

		if res.HasTotals {
			totalPages = pageCount(res.Total, res.PerPage)
		}

		for _, u := range res.Users {
			if l := u.Login(); l != "" {
				logins = append(logins, l)
			}
		}
		users = append(users, res.Users...)
		p.logger.Info(ctx, "fetched users page", "page", page, "of", totalPages, "count", len(res.Users))

		if err := sleep(ctx, p.cfg.PageDelay); err != nil {
			return nil, nil, err
		}
	}

	return users, logins, nil
}

func (p *UserPager) fetchPage(ctx context.Context, s client.Session, campusID, page, totalPages int, report Reporter) (*client.UsersPage, error) {
	q := client.UsersQuery{Page: page, PageSize: p.cfg.PageSize, CampusID: campusID}

	var (
		res     *client.UsersPage
		lastErr error
		attempt int
	)

	next := retry.WithMaxRetries(uint64(p.cfg.Attempts-1), retry.NewExponential(p.cfg.RetryBase))
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		d, stop := next.Next()
		if stop {
			return 0, true
		}
		attempt++
		p.logger.Warn(ctx, "users page request failed, retrying", "page", page, "in", d, "error", lastErr)
		report.report(
			fmt.Sprintf("API error, retrying in %s (%d/%d)...", d, attempt, p.cfg.Attempts),
			retryPercent(page, totalPages),
		)
		return d, false
	})

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		res, err = s.Users(ctx, q)
		if err != nil {
			lastErr = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
				errors.Is(err, client.ErrDecode) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// pageCount is ceil(total/perPage), or 1 when perPage is unusable.
func pageCount(total, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// Paging occupies the 10..50 band of the overall progress.
func pagePercent(page, totalPages int) int {
	if totalPages <= 1 {
		return 20
	}
	return 10 + page*40/totalPages
}

// retryPercent sits half a page behind pagePercent.
func retryPercent(page, totalPages int) int {
	if totalPages <= 1 {
		return 30
	}
	return 10 + (2*page-1)*20/totalPages
}
