package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// DefaultCookieName is the session cookie holding the bearer token.
const DefaultCookieName = "token"

// ErrNoToken is returned by CookieTokenSource when the jar has no session
// cookie for the URL.
var ErrNoToken = errors.New("no session token")

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// CookieTokenSource reads the token from a cookie jar, the way the
// browser front end reads it from its cookie storage.
type CookieTokenSource struct {
	Jar  http.CookieJar
	URL  *url.URL
	Name string
}

func (s CookieTokenSource) Token(context.Context) (string, error) {
	if s.Jar == nil || s.URL == nil {
		return "", ErrNoToken
	}

	name := s.Name
	if name == "" {
		name = DefaultCookieName
	}

	for _, cookie := range s.Jar.Cookies(s.URL) {
		if cookie.Name == name && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", ErrNoToken
}
