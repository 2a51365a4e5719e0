package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// Claims is the decoded payload of a bearer token. The backend stores
// the role either in the issuer claim (e.g. "ROLE_ADMIN") or in a
// dedicated "rol" claim; NormalizeRole reconciles the two. Claims are
// transient and are only ever projected into a User snapshot.
type Claims struct {
	Subject   string           `json:"sub,omitempty"`
	Issuer    string           `json:"iss,omitempty"`
	Rol       string           `json:"rol,omitempty"`
	UserID    *int64           `json:"usuarioId,omitempty"`
	Name      string           `json:"nombre,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

// Email returns the subject claim, which the backend uses for the
// account email.
func (c *Claims) Email() string {
	return c.Subject
}

// Expires returns the expiry carried by the token. Expiry is not
// enforced locally; the backend rejects stale tokens on use.
func (c *Claims) Expires() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// DecodePayload decodes the payload segment of a compact three-part
// token without verifying its signature. Every malformed input maps to
// a decode failure (see IsDecodeError); nothing escapes as a panic.
func DecodePayload(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, ErrTokenMalformed.WithMetadata(map[string]any{
			"segments": len(parts),
		})
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "unable to decode token payload").
			WithTextCode(textCodeTokenMalformed).
			WithCode(goerrors.CodeUnauthorized)
	}

	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "token payload is not a claims object").
			WithTextCode(textCodeTokenMalformed).
			WithCode(goerrors.CodeUnauthorized)
	}

	return claims, nil
}

// decodeSegment reverses the URL-safe substitution and re-pads before
// running a standard base64 decode, matching how the issuer encodes
// the payload.
func decodeSegment(seg string) ([]byte, error) {
	seg = strings.NewReplacer("-", "+", "_", "/").Replace(seg)
	if m := len(seg) % 4; m != 0 {
		seg += strings.Repeat("=", 4-m)
	}
	return base64.StdEncoding.DecodeString(seg)
}
