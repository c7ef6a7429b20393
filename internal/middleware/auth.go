// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/sha256"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"ethicsadmin/internal/config"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ActorKey is the context key for the authenticated token name.
	ActorKey contextKey = "actor"

	// AnonymousActor is recorded when a development server runs without tokens.
	AnonymousActor = "anonymous"
)

// TokenAuth authenticates admin API requests by bearer token. Tokens are
// configured as bcrypt hashes; a token that verified once is remembered
// by its SHA-256 digest so later requests skip the bcrypt cost.
type TokenAuth struct {
	tokens         []config.AdminToken
	allowAnonymous bool
	verified       sync.Map // [32]byte -> token name
}

// NewTokenAuth creates the authenticator. When allowAnonymous is true and
// no tokens are configured, every request passes as AnonymousActor.
func NewTokenAuth(tokens []config.AdminToken, allowAnonymous bool) *TokenAuth {
	return &TokenAuth{tokens: tokens, allowAnonymous: allowAnonymous}
}

// Middleware rejects requests without a valid bearer token with 401 and
// stores the token's name in the request context.
func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.tokens) == 0 && a.allowAnonymous {
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), AnonymousActor)))
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="ethicsadmin"`)
			jsonError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		name, ok := a.verify(token)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="ethicsadmin", error="invalid_token"`)
			jsonError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), name)))
	})
}

// verify returns the name of the configured token matching the
// presented one.
func (a *TokenAuth) verify(token string) (string, bool) {
	digest := sha256.Sum256([]byte(token))
	if name, ok := a.verified.Load(digest); ok {
		return name.(string), true
	}
	for _, t := range a.tokens {
		if bcrypt.CompareHashAndPassword([]byte(t.Hash), []byte(token)) == nil {
			a.verified.Store(digest, t.Name)
			return t.Name, true
		}
	}
	return "", false
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithActor returns a context carrying the actor name.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ActorKey, name)
}

// ActorFromCtx returns the authenticated actor, or "" when the request
// did not pass through TokenAuth.
func ActorFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(ActorKey).(string)
	return name
}
