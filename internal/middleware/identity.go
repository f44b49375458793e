package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the caller identity carried by a verified token.
type Principal struct {
	Subject string
	Locale  string
}

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// VerifierFunc adapts a function to TokenVerifier.
type VerifierFunc func(ctx context.Context, token string) (Principal, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}

// Claims is the payload of tokens issued with SignToken.
type Claims struct {
	Locale string `json:"locale,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// HMACVerifier accepts HS256 tokens signed with Secret.
type HMACVerifier struct {
	Secret string
}

func (v HMACVerifier) Verify(_ context.Context, token string) (Principal, error) {
	claims, err := VerifyToken(v.Secret, token)
	if err != nil {
		return Principal{}, err
	}
	return Principal{Subject: claims.Subject, Locale: claims.Locale}, nil
}

// SignToken issues an HS256 token for subject valid for ttl.
func SignToken(secret, subject, locale string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Locale: locale,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken parses token and checks its HS256 signature and expiry.
func VerifyToken(secret, token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Identity attaches the bearer token subject as the user id. Verifiers are
// tried in order and the first success wins. Requests without an
// Authorization header continue anonymously; a header no verifier accepts
// is rejected with 401. With no verifiers every caller is anonymous.
func Identity(verifiers ...TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || len(verifiers) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				unauthorized(w, "invalid authorization")
				return
			}
			token = strings.TrimSpace(token)

			var (
				principal Principal
				verified  bool
			)
			for _, v := range verifiers {
				p, err := v.Verify(r.Context(), token)
				if err == nil && p.Subject != "" {
					principal, verified = p, true
					break
				}
			}
			if !verified {
				unauthorized(w, "invalid token")
				return
			}

			ctx := ContextWithUserID(r.Context(), principal.Subject)
			if locale := matchLocale(principal.Locale); locale != "" {
				ctx = context.WithValue(ctx, LocaleKey, locale)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + msg + `"}`))
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
