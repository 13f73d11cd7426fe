package asset

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/core/common/validation"
	"github.com/frahmantamala/asset-inventory/internal/core/events"
	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
	"github.com/frahmantamala/asset-inventory/internal/metrics"
)

// ListOptions controls what a read joins in alongside each asset.
type ListOptions struct {
	WithEmployee bool
}

type RepositoryAPI interface {
	Create(ctx context.Context, row *assetDatamodel.Asset) error
	GetByID(ctx context.Context, id int64) (*assetDatamodel.Asset, error)
	Update(ctx context.Context, row *assetDatamodel.Asset) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts ListOptions) ([]*assetDatamodel.Asset, error)
	Search(ctx context.Context, keyword string, opts ListOptions) ([]*assetDatamodel.Asset, error)
}

type Service struct {
	repo   RepositoryAPI
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events.Discard,
		logger: logger,
	}
}

// WithPublisher announces every committed write on p.
func (s *Service) WithPublisher(p events.Publisher) *Service {
	if p != nil {
		s.events = p
	}
	return s
}

func (s *Service) CreateAsset(ctx context.Context, who auth.Identity, dto AssetDTO) (*Asset, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	dto = dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		s.logger.Warn("asset validation failed", "error", appErr.GetDetailedMessage(), "user_id", who.UserID)
		return nil, appErr
	}

	row := ToDataModel(NewAsset(dto))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create asset", "error", err, "user_id", who.UserID)
		return nil, err
	}

	s.events.Publish(ctx, events.NewInventoryChangedEvent(events.EventTypeAssetCreated, row.ID, who.UserID))
	s.logger.Info("asset created", "asset_id", row.ID, "user_id", who.UserID)
	return FromDataModel(row), nil
}

func (s *Service) GetAsset(ctx context.Context, who auth.Identity, id int64) (*Asset, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// UpdateAsset replaces every editable field of the asset with the DTO values.
func (s *Service) UpdateAsset(ctx context.Context, who auth.Identity, id int64, dto AssetDTO) (*Asset, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	dto = dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		s.logger.Warn("asset validation failed", "error", appErr.GetDetailedMessage(), "asset_id", id)
		return nil, appErr
	}

	row := ToDataModel(NewAsset(dto))
	row.ID = id
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update asset", "error", err, "asset_id", id)
		return nil, err
	}

	s.events.Publish(ctx, events.NewInventoryChangedEvent(events.EventTypeAssetUpdated, id, who.UserID))
	s.logger.Info("asset updated", "asset_id", id, "user_id", who.UserID)
	return FromDataModel(row), nil
}

func (s *Service) DeleteAsset(ctx context.Context, who auth.Identity, id int64) error {
	if err := auth.RequireIdentity(who); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete asset", "error", err, "asset_id", id)
		return err
	}

	s.events.Publish(ctx, events.NewInventoryChangedEvent(events.EventTypeAssetDeleted, id, who.UserID))
	s.logger.Info("asset deleted", "asset_id", id, "user_id", who.UserID)
	return nil
}

// ListAssets returns every asset with its holder, ordered by id.
func (s *Service) ListAssets(ctx context.Context, who auth.Identity) ([]*Asset, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, ListOptions{WithEmployee: true})
	if err != nil {
		s.logger.Error("failed to list assets", "error", err)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

// SearchAssets returns the assets where the keyword occurs, ignoring case, in
// any descriptive column or in the holder's name. The keyword is matched as
// given, spaces included; only an empty keyword lists all.
func (s *Service) SearchAssets(ctx context.Context, who auth.Identity, keyword string) ([]*Asset, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	opts := ListOptions{WithEmployee: true}

	var (
		rows []*assetDatamodel.Asset
		err  error
	)
	if keyword == "" {
		rows, err = s.repo.List(ctx, opts)
	} else {
		rows, err = s.repo.Search(ctx, keyword, opts)
	}
	if err != nil {
		s.logger.Error("asset search failed", "error", err, "keyword", keyword)
		return nil, err
	}

	metrics.RecordSearch(len(rows))
	s.logger.Debug("asset search", "keyword", keyword, "results", len(rows), "user_id", who.UserID)
	return FromDataModelSlice(rows), nil
}
