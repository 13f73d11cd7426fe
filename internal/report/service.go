package report

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/asset-inventory/internal/auth"
)

type RepositoryAPI interface {
	Rows(ctx context.Context) ([]Row, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Register returns every asset, ordered by id, flattened with its holder.
func (s *Service) Register(ctx context.Context, who auth.Identity) ([]Row, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	rows, err := s.repo.Rows(ctx)
	if err != nil {
		s.logger.Error("failed to build asset register", "error", err)
		return nil, err
	}

	s.logger.Info("asset register built", "rows", len(rows), "user_id", who.UserID)
	return rows, nil
}
