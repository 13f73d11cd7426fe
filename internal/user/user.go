package user

import (
	"time"

	"github.com/frahmantamala/asset-inventory/internal/auth"
	userDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/user"
)

// Profile is what the signed-in user sees about their own account and session.
type Profile struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	CreatedAt        time.Time `json:"created_at"`
	SessionExpiresAt time.Time `json:"session_expires_at"`
}

func NewProfile(row *userDatamodel.User, who auth.Identity) *Profile {
	return &Profile{
		ID:               row.ID,
		Username:         row.Username,
		CreatedAt:        row.CreatedAt,
		SessionExpiresAt: who.ExpiresAt,
	}
}
