package devmode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "cofi-devserver"

// bcryptCost is low because fixtures are hashed at every start.
const bcryptCost = bcrypt.MinCost

type ctxKey int

const (
	userIDKey ctxKey = iota
	tokenIDKey
)

// authenticator issues and checks access tokens. A token is an HS256 JWT
// whose subject is the user id and whose jti can be revoked by logout.
type authenticator struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]struct{}
}

func newAuthenticator(secret string, ttl time.Duration) *authenticator {
	return &authenticator{secret: []byte(secret), ttl: ttl, revoked: map[string]struct{}{}}
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// issue signs a token for userID.
func (a *authenticator) issue(userID string, now time.Time) (string, *jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("could not sign JWT: %w", err)
	}
	return signed, claims, nil
}

var errRevoked = errors.New("token has been revoked")

// validate parses a token and returns its claims.
func (a *authenticator) validate(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	_, gone := a.revoked[claims.ID]
	a.mu.Unlock()
	if gone {
		return nil, errRevoked
	}
	return claims, nil
}

func (a *authenticator) revoke(id string) {
	a.mu.Lock()
	a.revoked[id] = struct{}{}
	a.mu.Unlock()
}

// tokenFromRequest accepts the token verbatim, with a Bearer prefix, or as
// the access_token query parameter.
func tokenFromRequest(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if v == "" {
		return r.URL.Query().Get("access_token")
	}
	if scheme, rest, ok := strings.Cut(v, " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(rest)
	}
	return v
}

// requireToken rejects requests without a valid token. A missing token is
// AUTHORIZATION_REQUIRED; a present but unusable one is INVALID_TOKEN.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, codeAuthorizationRequired, "Authorization Required")
			return
		}
		claims, err := s.auth.validate(token)
		if err != nil {
			msg := "Invalid Access Token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Access Token expired"
			}
			s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected token")
			writeError(w, http.StatusUnauthorized, codeInvalidToken, msg)
			return
		}
		if _, ok := s.store.user(claims.Subject); !ok {
			writeError(w, http.StatusUnauthorized, codeInvalidToken, "Invalid Access Token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, tokenIDKey, claims.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func currentTokenID(r *http.Request) string {
	id, _ := r.Context().Value(tokenIDKey).(string)
	return id
}

// resolveUser maps the "me" alias to the caller.
func resolveUser(r *http.Request, id string) string {
	if id == "" || id == "me" {
		return currentUserID(r)
	}
	return id
}
