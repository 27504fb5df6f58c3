package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/userfetcher/internal/client/client"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
)

// CampusResolver picks the campus id users are filtered by.
type CampusResolver struct {
	name     string
	fallback int
	logger   logging.Logger
}

func NewCampusResolver(name string, fallback int, logger logging.Logger) *CampusResolver {
	return &CampusResolver{name: name, fallback: fallback, logger: logger}
}

// Resolve returns the id of the first campus whose name contains the
// configured substring (case-sensitive). When the list cannot be fetched or
// nothing matches it logs a warning and returns the fallback id.
func (r *CampusResolver) Resolve(ctx context.Context, s client.Session) int {
	campuses, err := s.Campuses(ctx)
	if err != nil {
		r.logger.Warn(ctx, "campus list unavailable, using fallback id", "fallback", r.fallback, "error", err)
		return r.fallback
	}

	for _, c := range campuses {
		if strings.Contains(c.Name, r.name) {
			r.logger.Info(ctx, "resolved campus", "name", c.Name, "id", c.ID)
			return c.ID
		}
	}

	r.logger.Warn(ctx, "campus not found, using fallback id", "name", r.name, "fallback", r.fallback)
	return r.fallback
}
