// Package client talks to the 42 intra REST API.
//
// # Overview
//
// Client exchanges the application credentials for an access token with the
// OAuth2 client-credentials grant (see HTTPClient.Authenticate) and opens a
// Session bound to that single token. Every request of the session carries
// the same "Authorization: Bearer <token>" header; the token is never
// refreshed and never persisted.
//
// Session exposes the four read endpoints the fetcher needs:
//
//	GET /v2/campus                          Campuses
//	GET /v2/coalitions                      Coalitions
//	GET /v2/users                           Users (paged, X-Total/X-Per-Page)
//	GET /v2/users/:login/coalitions_users   CoalitionUsers
//
// # Error Handling
//
// Token failures wrap ErrAuthentication. Transport failures wrap
// ErrUnavailable. Non-2xx responses come back as *StatusError, which
// unwraps to ErrUnauthorized for a 401.
package client
