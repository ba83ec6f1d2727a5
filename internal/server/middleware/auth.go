package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cashbookhq/cashbook/internal/token"
)

// maxIdentityBodyBytes caps how much of a request body the identity
// fallback will buffer while looking for a user_id parameter.
const maxIdentityBodyBytes = 1 << 20

// RevocationChecker answers whether a token signature has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

// Identity resolves the requesting user and stores it in the request
// context. A valid bearer token always wins. When allowIdentityParam is
// set, requests without a usable token may instead assert an identity via
// a user_id parameter (query, form or JSON body); such identities carry no
// username. The middleware never rejects a request itself; handlers gate
// access through RequireUser.
func Identity(codec *token.Codec, revoked RevocationChecker, allowIdentityParam bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := extractBearer(r); tok != "" {
				if ctx, ok := identityFromToken(r.Context(), tok, codec, revoked); ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if allowIdentityParam {
				if ctx, ok := identityFromRequest(r); ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects requests that carry no resolved user identity.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); !ok {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}

func identityFromToken(ctx context.Context, tok string, codec *token.Codec, revoked RevocationChecker) (context.Context, bool) {
	claims, err := codec.Decode(tok)
	if err != nil || claims.UserID <= 0 {
		return ctx, false
	}

	if revoked != nil {
		isRevoked, err := revoked.IsRevoked(ctx, token.Signature(tok))
		if err != nil {
			// Revocation store unavailable; accept the token rather than
			// locking every user out.
			log.Warn().Err(err).Msg("identity: revocation check failed")
		} else if isRevoked {
			return ctx, false
		}
	}

	ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
	if claims.Username != "" {
		ctx = context.WithValue(ctx, ContextKeyUsername, claims.Username)
	}
	return ctx, true
}

// identityFromRequest extracts a client-asserted user_id from the query
// string, a form body or a JSON body, in that order. The body is buffered
// and restored so downstream handlers can read it again.
func identityFromRequest(r *http.Request) (context.Context, bool) {
	if id, ok := parseUserID(r.URL.Query().Get("user_id")); ok {
		return context.WithValue(r.Context(), ContextKeyUserID, id), true
	}

	if r.Body == nil || r.ContentLength == 0 {
		return r.Context(), false
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxIdentityBodyBytes))
	if err != nil {
		return r.Context(), false
	}
	r.Body = io.NopCloser(bytes.NewReader(buf))

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		form, err := url.ParseQuery(string(buf))
		if err != nil {
			return r.Context(), false
		}
		if id, ok := parseUserID(form.Get("user_id")); ok {
			return context.WithValue(r.Context(), ContextKeyUserID, id), true
		}

	case strings.Contains(contentType, "application/json"):
		var payload map[string]any
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return r.Context(), false
		}
		var raw string
		switch v := payload["user_id"].(type) {
		case json.Number:
			raw = v.String()
		case string:
			raw = v
		}
		if id, ok := parseUserID(raw); ok {
			return context.WithValue(r.Context(), ContextKeyUserID, id), true
		}
	}

	return r.Context(), false
}

func parseUserID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// WriteError writes a JSON error envelope. Used by middleware and the
// router's fallback handlers, which sit outside the API layer.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body, _ := json.Marshal(struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{Success: false, Message: message})
	_, _ = w.Write(body)
}
