package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/asset-inventory/internal"
)

// Identity is the caller on whose behalf an inventory operation runs. It is
// passed explicitly into every service call; the zero value is Anonymous.
type Identity struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	SessionID string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

var Anonymous = Identity{}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0 && i.SessionID != ""
}

// RequireIdentity fails with AuthRequired for Anonymous callers.
func RequireIdentity(who Identity) error {
	if !who.IsAuthenticated() {
		return internal.ErrAuthRequired
	}
	return nil
}

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, who Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, who)
}

// IdentityFromContext returns Anonymous when the request was never authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Anonymous, false
	}
	who, ok := ctx.Value(ContextIdentityKey).(Identity)
	if !ok {
		return Anonymous, false
	}
	return who, true
}
