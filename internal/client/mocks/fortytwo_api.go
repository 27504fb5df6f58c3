// Package mocks provides an in-process fake of the 42 intra API for tests.
package mocks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

const (
	ClientID     = "test-uid"
	ClientSecret = "test-secret"
	Token        = "deadbeef2808001d182ebc24f31a44ac"
)

// Request is one call observed by the fake.
type Request struct {
	Method        string
	Path          string
	Query         map[string]string
	Authorization string
}

// FortyTwoAPI serves the token endpoint and the read endpoints used by the
// fetcher. Fields may be set before the first request; failures can be
// injected per endpoint.
type FortyTwoAPI struct {
	server *httptest.Server

	mu sync.Mutex

	Campuses    []models.Campus
	Coalitions  []models.Coalition
	Users       []models.User
	Memberships map[string][]models.CoalitionUser

	// OmitTotals drops the X-Total/X-Per-Page headers from /v2/users.
	OmitTotals bool
	// PageFailures holds how many more times a given users page answers 500.
	PageFailures map[int]int
	FailCampus     bool
	FailCoalitions bool
	FailLogins     map[string]bool

	requests []Request
}

func NewFortyTwoAPI() *FortyTwoAPI {
	s := &FortyTwoAPI{
		Memberships:  map[string][]models.CoalitionUser{},
		PageFailures: map[int]int{},
		FailLogins:   map[string]bool{},
	}
	s.server = httptest.NewServer(fortyTwoMux(s))
	return s
}

func fortyTwoMux(s *FortyTwoAPI) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", s.handleToken)
	mux.HandleFunc("/v2/campus", s.authorized(s.handleCampus))
	mux.HandleFunc("/v2/coalitions", s.authorized(s.handleCoalitions))
	mux.HandleFunc("/v2/users", s.authorized(s.handleUsers))
	mux.HandleFunc("/v2/users/", s.authorized(s.handleCoalitionUsers))
	return mux
}

func (s *FortyTwoAPI) URL() string      { return s.server.URL }
func (s *FortyTwoAPI) TokenURL() string { return s.server.URL + "/oauth/token" }

func (s *FortyTwoAPI) Close() error {
	s.server.Close()
	return nil
}

// Requests returns a copy of every request received so far.
func (s *FortyTwoAPI) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the recorded requests whose path has the given prefix.
func (s *FortyTwoAPI) RequestsTo(prefix string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func (s *FortyTwoAPI) record(req *http.Request) {
	q := map[string]string{}
	for k, v := range req.URL.Query() {
		q[k] = v[0]
	}
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        req.Method,
		Path:          req.URL.Path,
		Query:         q,
		Authorization: req.Header.Get("Authorization"),
	})
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *FortyTwoAPI) handleToken(w http.ResponseWriter, req *http.Request) {
	s.record(req)
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := req.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	if req.PostForm.Get("grant_type") != "client_credentials" ||
		req.PostForm.Get("client_id") != ClientID ||
		req.PostForm.Get("client_secret") != ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "invalid_client",
			"error_description": "Client authentication failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": Token,
		"token_type":   "bearer",
		"expires_in":   7200,
		"scope":        "public",
	})
}

func (s *FortyTwoAPI) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.record(req)
		if req.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authorized"})
			return
		}
		next(w, req)
	}
}

func (s *FortyTwoAPI) handleCampus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCampus {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		return
	}
	writeJSON(w, http.StatusOK, s.Campuses)
}

func (s *FortyTwoAPI) handleCoalitions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCoalitions {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		return
	}
	writeJSON(w, http.StatusOK, s.Coalitions)
}

func (s *FortyTwoAPI) handleUsers(w http.ResponseWriter, req *http.Request) {
	page, _ := strconv.Atoi(req.URL.Query().Get("page[number]"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page[size]"))
	if page < 1 || size < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad page"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PageFailures[page] > 0 {
		s.PageFailures[page]--
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "try again"})
		return
	}

	from := min((page-1)*size, len(s.Users))
	to := min(from+size, len(s.Users))
	out := s.Users[from:to]
	if out == nil {
		out = []models.User{}
	}

	if !s.OmitTotals {
		w.Header().Set("X-Total", strconv.Itoa(len(s.Users)))
		w.Header().Set("X-Per-Page", strconv.Itoa(size))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *FortyTwoAPI) handleCoalitionUsers(w http.ResponseWriter, req *http.Request) {
	rest := strings.TrimPrefix(req.URL.Path, "/v2/users/")
	login, ok := strings.CutSuffix(rest, "/coalitions_users")
	if !ok || login == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLogins[login] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		return
	}
	m := s.Memberships[login]
	if m == nil {
		m = []models.CoalitionUser{}
	}
	writeJSON(w, http.StatusOK, m)
}
