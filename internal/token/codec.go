// Package token implements the compact signed claims bundle used as the
// bearer credential: two URL-safe unpadded base64 JSON segments (header and
// claims) joined with an HMAC-SHA256 signature segment. The format is
// deliberately self-contained so both the issuing and validating sides
// depend only on the shared secret.
package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidToken is returned for every decode failure: wrong segment
// count, malformed base64 or JSON, signature mismatch, or expiry. Callers
// must not learn which check failed.
var ErrInvalidToken = errors.New("token: invalid or expired token")

const headerJSON = `{"typ":"JWT","alg":"HS256"}`

// Claims is the token payload. UserID is the identity claim; IssuedAt and
// ExpiresAt are unix seconds and optional on decode (a token without exp
// never expires). Unknown claims survive a round trip through Extra.
type Claims struct {
	UserID    int64
	Username  string
	IssuedAt  int64
	ExpiresAt int64
	Extra     map[string]any
}

// MarshalJSON flattens the named claims and the extension map into a single
// JSON object. Named claims win over Extra entries of the same name.
func (c Claims) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		m[k] = v
	}
	m["user_id"] = c.UserID
	if c.Username != "" {
		m["username"] = c.Username
	}
	if c.IssuedAt != 0 {
		m["iat"] = c.IssuedAt
	}
	if c.ExpiresAt != 0 {
		m["exp"] = c.ExpiresAt
	}
	return json.Marshal(m)
}

// UnmarshalJSON pulls the named claims out of the object and collects the
// rest into Extra. Numbers are decoded as json.Number to keep 64-bit
// identities exact.
func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("token: decode claims: %w", err)
	}

	for k, v := range m {
		switch k {
		case "user_id":
			n, err := claimInt64(v)
			if err != nil {
				return fmt.Errorf("token: claim user_id: %w", err)
			}
			c.UserID = n
		case "username":
			s, ok := v.(string)
			if !ok {
				return errors.New("token: claim username must be a string")
			}
			c.Username = s
		case "iat":
			n, err := claimInt64(v)
			if err != nil {
				return fmt.Errorf("token: claim iat: %w", err)
			}
			c.IssuedAt = n
		case "exp":
			n, err := claimInt64(v)
			if err != nil {
				return fmt.Errorf("token: claim exp: %w", err)
			}
			c.ExpiresAt = n
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[k] = v
		}
	}
	return nil
}

func claimInt64(v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, errors.New("not a number")
	}
	return n.Int64()
}

// Codec signs and verifies claim bundles with a process-wide shared secret.
// The secret is injected at construction so environments and tests can
// rotate it independently.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// Encode serializes the claims into a signed three-segment token.
func (c *Codec) Encode(claims Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("token.Encode: %w", err)
	}

	header := base64.RawURLEncoding.EncodeToString([]byte(headerJSON))
	body := base64.RawURLEncoding.EncodeToString(payload)
	signature := c.sign(header + "." + body)

	return header + "." + body + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// Decode verifies and parses a token. The signature check is constant-time.
// Any failure, including an exp claim in the past, yields ErrInvalidToken.
func (c *Codec) Decode(tok string) (Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	headerRaw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var header struct {
		Typ string `json:"typ"`
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerRaw, &header); err != nil || header.Alg != "HS256" {
		return Claims{}, ErrInvalidToken
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if !hmac.Equal(signature, c.sign(parts[0]+"."+parts[1])) {
		return Claims{}, ErrInvalidToken
	}

	payloadRaw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(payloadRaw, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.ExpiresAt != 0 && claims.ExpiresAt < c.now().Unix() {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// Signature returns the signature segment of a token, used as the key for
// revocation bookkeeping. Returns "" for tokens that are not three-segment.
func Signature(tok string) string {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return ""
	}
	return parts[2]
}

func (c *Codec) sign(signingInput string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil)
}
