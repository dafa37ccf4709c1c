package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticToken_StripsBearerPrefix(t *testing.T) {
	for _, raw := range []string{"abc123", "Bearer abc123", "  Bearer abc123  "} {
		p := NewStaticToken(raw)
		tok, err := p.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "abc123", tok, "raw=%q", raw)
	}
}

func fakeIdentityProvider(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuthToken_Exchange(t *testing.T) {
	idp := fakeIdentityProvider(t, http.StatusOK,
		`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`)

	p := NewOAuthToken(idp.URL, "tenant-1", "client-1", "secret-1", "api://resource/.default")
	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Cached until expiry; a second call must not fail even if the
	// provider goes away.
	idp.Close()
	tok, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
}

func TestOAuthToken_ProviderErrorPropagatesDescription(t *testing.T) {
	idp := fakeIdentityProvider(t, http.StatusUnauthorized,
		`{"error":"invalid_client","error_description":"AADSTS7000215: Invalid client secret provided."}`)

	p := NewOAuthToken(idp.URL, "tenant-1", "client-1", "wrong-secret", "api://resource/.default")
	_, err := p.Token(context.Background())

	var aerr *AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Error(), "AADSTS7000215")
}
