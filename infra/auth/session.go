package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// LoadSession builds the raw identity-provider session from tp.
// No configured token yields a signed-out session and no error.
func LoadSession(tp TokenProvider) (domain.Session, error) {
	token, err := tp.AccessToken()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return domain.Session{}, nil
		}
		return domain.Session{}, err
	}
	return domain.Session{
		AccessToken: token,
		ExpiresAt:   tokenExpiry(token),
	}, nil
}

// tokenExpiry reads the exp claim of a JWT access token without verifying
// it. Opaque tokens report the zero time.
func tokenExpiry(token string) time.Time {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return time.Time{}
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp <= 0 {
		return time.Time{}
	}
	return time.Unix(claims.Exp, 0).UTC()
}
