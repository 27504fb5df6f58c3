package client

import (
	"context"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"golang.org/x/oauth2"
)

// Client obtains access tokens and opens API sessions.
type Client interface {
	Authenticate(ctx context.Context, creds models.Credentials) (*oauth2.Token, error)
	Session(ctx context.Context, token *oauth2.Token) Session
}

// Session is a set of authenticated API calls sharing one token.
type Session interface {
	Campuses(ctx context.Context) ([]models.Campus, error)
	Coalitions(ctx context.Context) ([]models.Coalition, error)
	Users(ctx context.Context, q UsersQuery) (*UsersPage, error)
	CoalitionUsers(ctx context.Context, login string) ([]models.CoalitionUser, error)
}

// UsersQuery selects one page of non-staff users of a campus, sorted by login.
type UsersQuery struct {
	Page     int
	PageSize int
	CampusID int
}

// UsersPage is one page of /v2/users. Total and PerPage come from the
// X-Total and X-Per-Page headers; HasTotals is false unless both parsed.
type UsersPage struct {
	Users     []models.User
	Total     int
	PerPage   int
	HasTotals bool
}
