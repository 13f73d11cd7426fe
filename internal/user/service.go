package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	userDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/user"
)

// Repository returns (nil, nil) for an unknown id.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, who auth.Identity) (*Profile, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, who.UserID)
	if err != nil {
		s.logger.Error("failed to load user", "error", err, "user_id", who.UserID)
		return nil, err
	}
	if row == nil {
		// the session outlived its user
		return nil, internal.ErrAuthRequired
	}

	return NewProfile(row, who), nil
}
