package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const maxErrorBody = 512

// HTTPClient is the Client backed by the real REST API.
type HTTPClient struct {
	baseURL    string
	tokenURL   string
	httpClient *http.Client
	logger     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient sets the underlying client used for both the token
// request and the API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL, tokenURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokenURL:   tokenURL,
		httpClient: http.DefaultClient,
		logger:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// Authenticate issues a single client-credentials token request. It does
// not retry.
func (c *HTTPClient) Authenticate(ctx context.Context, creds models.Credentials) (*oauth2.Token, error) {
	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tok, err := cfg.Token(c.withHTTPClient(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	c.logger.Info(ctx, "obtained access token")
	return tok, nil
}

// Session returns API calls authorized with token. The token is used as is
// for every request.
func (c *HTTPClient) Session(ctx context.Context, token *oauth2.Token) Session {
	return &httpSession{
		baseURL: c.baseURL,
		http:    oauth2.NewClient(c.withHTTPClient(ctx), oauth2.StaticTokenSource(token)),
		logger:  c.logger,
	}
}

type httpSession struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

func (s *httpSession) Campuses(ctx context.Context) ([]models.Campus, error) {
	var out []models.Campus
	if _, err := s.getJSON(ctx, "/v2/campus", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *httpSession) Coalitions(ctx context.Context) ([]models.Coalition, error) {
	var out []models.Coalition
	if _, err := s.getJSON(ctx, "/v2/coalitions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *httpSession) Users(ctx context.Context, q UsersQuery) (*UsersPage, error) {
	params := url.Values{}
	params.Set("page[number]", strconv.Itoa(q.Page))
	params.Set("page[size]", strconv.Itoa(q.PageSize))
	params.Set("filter[primary_campus_id]", strconv.Itoa(q.CampusID))
	params.Set("filter[staff?]", "false")
	params.Set("sort", "login")

	body, header, err := s.get(ctx, "/v2/users", params)
	if err != nil {
		return nil, err
	}
	users, err := models.DecodeUsers(body)
	if err != nil {
		return nil, fmt.Errorf("%w: users page %d: %w", ErrDecode, q.Page, err)
	}

	page := &UsersPage{Users: users}
	total, errT := strconv.Atoi(header.Get("X-Total"))
	per, errP := strconv.Atoi(header.Get("X-Per-Page"))
	if errT == nil && errP == nil {
		page.Total, page.PerPage, page.HasTotals = total, per, true
	}
	return page, nil
}

func (s *httpSession) CoalitionUsers(ctx context.Context, login string) ([]models.CoalitionUser, error) {
	var out []models.CoalitionUser
	path := "/v2/users/" + url.PathEscape(login) + "/coalitions_users"
	if _, err := s.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *httpSession) getJSON(ctx context.Context, path string, params url.Values, out any) (http.Header, error) {
	body, header, err := s.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return header, nil
}

func (s *httpSession) get(ctx context.Context, path string, params url.Values) ([]byte, http.Header, error) {
	u := s.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: GET %s: %w", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		s.logger.Debug(ctx, "api error response", "path", path, "status", resp.StatusCode)
		return nil, nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, resp.Header, nil
}
