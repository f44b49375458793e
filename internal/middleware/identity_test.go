package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityProbe(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityAcceptsValidToken(t *testing.T) {
	token, err := SignToken("s3cret", "user-42", "tr", time.Hour)
	require.NoError(t, err)

	var seen string
	req := httptest.NewRequest(http.MethodGet, "/v1/designs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Identity(HMACVerifier{Secret: "s3cret"})(identityProbe(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", seen)
}

func TestIdentityAnonymousWithoutHeader(t *testing.T) {
	seen := "unset"
	rec := httptest.NewRecorder()
	Identity(HMACVerifier{Secret: "s3cret"})(identityProbe(&seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, seen)
}

func TestIdentityRejectsBadTokens(t *testing.T) {
	expired, err := SignToken("s3cret", "user-42", "", -time.Minute)
	require.NoError(t, err)
	foreign, err := SignToken("other", "user-42", "", time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"garbage":      "Bearer not-a-jwt",
		"wrong scheme": "Basic dXNlcjpwYXNz",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			var seen string
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			Identity(HMACVerifier{Secret: "s3cret"})(identityProbe(&seen)).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, seen)
		})
	}
}

func TestIdentityTokenLocaleOverridesContext(t *testing.T) {
	token, err := SignToken("s3cret", "user-42", "tr", time.Hour)
	require.NoError(t, err)

	var locale string
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Language", "en-US")
	I18N("en", nil)(Identity(HMACVerifier{Secret: "s3cret"})(probe)).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "tr", locale)
}

func TestIdentityTriesVerifiersInOrder(t *testing.T) {
	rejectAll := VerifierFunc(func(ctx context.Context, token string) (Principal, error) {
		return Principal{}, ErrInvalidToken
	})
	firebase := VerifierFunc(func(ctx context.Context, token string) (Principal, error) {
		if token != "firebase-id-token" {
			return Principal{}, ErrInvalidToken
		}
		return Principal{Subject: "fb-uid"}, nil
	})

	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer firebase-id-token")
	rec := httptest.NewRecorder()
	Identity(rejectAll, firebase)(identityProbe(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fb-uid", seen)
}
