package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	sessionDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/session"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) auth.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, row *sessionDatamodel.Session) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(row).Error; err != nil {
			return internal.NewStoreError(err)
		}
		return nil
	})
	return internal.StoreErrorf(err)
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*sessionDatamodel.Session, error) {
	var row sessionDatamodel.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, internal.StoreErrorf(err)
	}
	return &row, nil
}

// Delete is idempotent: removing an unknown session succeeds.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&sessionDatamodel.Session{}).Error
	})
	return internal.StoreErrorf(err)
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("expires_at <= ?", now).Delete(&sessionDatamodel.Session{})
		purged = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, internal.StoreErrorf(err)
	}
	return purged, nil
}
