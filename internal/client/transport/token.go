package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arogyahealth/arogya-go/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// attachToken sets the Authorization header from the persisted access
// token, if one exists. A token whose exp claim has already passed is
// dropped locally instead of being sent, saving a guaranteed 401 round
// trip while offline actions are replaying.
func (c *Client) attachToken(ctx context.Context, req *http.Request) error {
	raw, err := c.tokens.Get(ctx, common.TokenMetadataKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	token := string(raw)
	if expired(token) {
		if err := c.tokens.Delete(ctx, common.TokenMetadataKey); err != nil {
			return fmt.Errorf("failed to drop expired token: %w", err)
		}
		return nil
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// expired decodes the token without verifying its signature (the backend
// is the verifier; we only need the exp claim) and reports whether it is
// past its expiry. Tokens that cannot be parsed are treated as live and
// left for the backend to judge.
func expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
