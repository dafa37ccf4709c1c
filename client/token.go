package client

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultAuthority is the identity-provider base URL for the
// client-credentials exchange.
const DefaultAuthority = "https://login.microsoftonline.com"

// TokenProvider supplies the bearer token attached to every request. The two
// variants keep the client core free of identity-provider details, so tests
// can inject a fake.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider wraps a fixed bearer string from configuration.
type StaticTokenProvider struct {
	token string
}

// NewStaticToken normalizes a configured token: a leading "Bearer " prefix
// is stripped so the client can re-add it uniformly. If the token parses as
// a JWT with an exp claim already in the past, that is logged up front
// rather than discovered one 401 at a time.
func NewStaticToken(raw string) *StaticTokenProvider {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	warnIfExpired(token)
	return &StaticTokenProvider{token: token}
}

func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}

func warnIfExpired(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return // opaque token, nothing to inspect
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		log.Printf("client.token: static bearer token expired at %s; requests will likely be rejected", exp.Format(time.RFC3339))
	}
}

// OAuthTokenProvider exchanges client credentials for a short-lived access
// token and caches it until expiry.
type OAuthTokenProvider struct {
	source oauth2.TokenSource
}

// NewOAuthToken builds a client-credentials provider against
// {authority}/{tenant}/oauth2/v2.0/token. Pass authority="" for the default
// provider; tests point it at a local fake.
func NewOAuthToken(authority, tenant, clientID, clientSecret, scope string) *OAuthTokenProvider {
	if authority == "" {
		authority = DefaultAuthority
	}
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     strings.TrimRight(authority, "/") + "/" + tenant + "/oauth2/v2.0/token",
		Scopes:       []string{scope},
	}
	return &OAuthTokenProvider{source: cc.TokenSource(context.Background())}
}

func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	tok, err := p.source.Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			desc := rerr.ErrorDescription
			if desc == "" {
				desc = strings.TrimSpace(string(rerr.Body))
			}
			return "", &AuthError{Description: desc, Err: err}
		}
		return "", &AuthError{Err: err}
	}
	if tok.AccessToken == "" {
		return "", &AuthError{Description: "identity provider returned an empty access token"}
	}
	return tok.AccessToken, nil
}
