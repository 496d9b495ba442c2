package webui

import (
	"net/http"

	"github.com/alantheprice/outreach/pkg/utils"
)

// Identity is the caller a request acts for.
type Identity struct {
	UserID string
	TeamID string
}

// Authorizer resolves the caller of a request.
type Authorizer interface {
	Authorize(r *http.Request) (Identity, error)
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(r *http.Request) (Identity, error)

func (f AuthorizerFunc) Authorize(r *http.Request) (Identity, error) {
	return f(r)
}

// Identity headers set by the gateway in front of the service.
const (
	HeaderUserID = "X-User-Id"
	HeaderTeamID = "X-Team-Id"
)

// HeaderAuthorizer trusts the identity headers set by an upstream gateway.
// Browsers cannot set headers on websocket upgrades, so the "user" and
// "team" query parameters are accepted as well.
type HeaderAuthorizer struct{}

func (HeaderAuthorizer) Authorize(r *http.Request) (Identity, error) {
	id := Identity{UserID: r.Header.Get(HeaderUserID), TeamID: r.Header.Get(HeaderTeamID)}
	if id.UserID == "" {
		id.UserID = r.URL.Query().Get("user")
	}
	if id.TeamID == "" {
		id.TeamID = r.URL.Query().Get("team")
	}
	if id.UserID == "" {
		return Identity{}, utils.NewAuthorizationError("missing user identity")
	}
	return id, nil
}
