package session

import (
	"time"

	userDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/user"
)

// Session is a server-side login. Its ID travels as the jti claim of the bearer token.
type Session struct {
	ID        string              `gorm:"primaryKey;size:36"`
	UserID    int64               `gorm:"column:user_id;not null;index"`
	User      *userDatamodel.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt time.Time           `gorm:"column:expires_at;not null"`
}

func (Session) TableName() string {
	return "sessions"
}
