package employee

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/core/common/validation"
	"github.com/frahmantamala/asset-inventory/internal/core/events"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	Create(ctx context.Context, row *employeeDatamodel.Employee) error
	List(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	Delete(ctx context.Context, id int64) error
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

// CreateEmployee fails with DUPLICATE_EMAIL when another employee already uses the email.
func (s *Service) CreateEmployee(ctx context.Context, who auth.Identity, dto CreateEmployeeDTO) (*Employee, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	if appErr := validation.Struct(dto); appErr != nil {
		s.logger.Warn("employee validation failed", "error", appErr.GetDetailedMessage(), "user_id", who.UserID)
		return nil, appErr
	}

	row := ToDataModel(NewEmployee(dto))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "error", err, "user_id", who.UserID)
		return nil, err
	}

	s.events.Publish(ctx, events.NewInventoryChangedEvent(events.EventTypeEmployeeCreated, row.ID, who.UserID))
	s.logger.Info("employee created", "employee_id", row.ID, "user_id", who.UserID)
	return FromDataModel(row), nil
}

// ListEmployees returns every employee in insertion order.
func (s *Service) ListEmployees(ctx context.Context, who auth.Identity) ([]*Employee, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}

	return FromDataModelSlice(rows), nil
}

func (s *Service) GetEmployee(ctx context.Context, who auth.Identity, id int64) (*Employee, error) {
	if err := auth.RequireIdentity(who); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// DeleteEmployee removes the employee and unassigns every asset it held.
func (s *Service) DeleteEmployee(ctx context.Context, who auth.Identity, id int64) error {
	if err := auth.RequireIdentity(who); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}

	s.events.Publish(ctx, events.NewInventoryChangedEvent(events.EventTypeEmployeeDeleted, id, who.UserID))
	s.logger.Info("employee deleted", "employee_id", id, "user_id", who.UserID)
	return nil
}
