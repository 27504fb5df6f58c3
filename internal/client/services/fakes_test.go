package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/userfetcher/internal/client/client"
	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

var errBoom = errors.New("boom")

type usersReply struct {
	page *client.UsersPage
	err  error
}

// fakeSession implements client.Session with canned replies.
type fakeSession struct {
	client.Session

	campuses      []models.Campus
	campusesErr   error
	coalitions    []models.Coalition
	coalitionsErr error

	replies    []usersReply
	usersCalls []client.UsersQuery

	memberships    map[string][]models.CoalitionUser
	membershipErrs map[string]error
	membershipReqs []string
}

func (f *fakeSession) Campuses(context.Context) ([]models.Campus, error) {
	return f.campuses, f.campusesErr
}

func (f *fakeSession) Coalitions(context.Context) ([]models.Coalition, error) {
	return f.coalitions, f.coalitionsErr
}

func (f *fakeSession) Users(_ context.Context, q client.UsersQuery) (*client.UsersPage, error) {
	f.usersCalls = append(f.usersCalls, q)
	if len(f.replies) == 0 {
		return &client.UsersPage{}, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.page, r.err
}

func (f *fakeSession) CoalitionUsers(_ context.Context, login string) ([]models.CoalitionUser, error) {
	f.membershipReqs = append(f.membershipReqs, login)
	if err := f.membershipErrs[login]; err != nil {
		return nil, err
	}
	return f.memberships[login], nil
}

// progressLog collects reported progress.
type progressLog struct {
	mu    sync.Mutex
	items []Progress
}

func (p *progressLog) reporter() Reporter {
	return func(pr Progress) {
		p.mu.Lock()
		p.items = append(p.items, pr)
		p.mu.Unlock()
	}
}

func (p *progressLog) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.items))
	for _, it := range p.items {
		out = append(out, it.Message)
	}
	return out
}

func usersPage(total, per int, logins ...string) *client.UsersPage {
	p := &client.UsersPage{Total: total, PerPage: per, HasTotals: per != 0}
	for _, l := range logins {
		p.Users = append(p.Users, models.User{"login": l})
	}
	return p
}
