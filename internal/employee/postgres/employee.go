package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/asset-inventory/internal"
	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
	"github.com/frahmantamala/asset-inventory/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

// Create checks email uniqueness in the same transaction as the insert. The
// unique index still backs it up under concurrent writers.
func (r *EmployeeRepository) Create(ctx context.Context, row *employeeDatamodel.Employee) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.Email != nil {
			var count int64
			if err := tx.Model(&employeeDatamodel.Employee{}).Where("email = ?", *row.Email).Count(&count).Error; err != nil {
				return internal.NewStoreError(err)
			}
			if count > 0 {
				return internal.ErrDuplicateEmail
			}
		}

		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return internal.ErrDuplicateEmail
			}
			return internal.NewStoreError(err)
		}
		return nil
	})
	return internal.StoreErrorf(err)
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Order("id ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, internal.StoreErrorf(err)
	}
	return rows, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, internal.StoreErrorf(err)
	}
	return &row, nil
}

// Delete unassigns the employee's assets before removing the row, so the
// set-null policy holds even where the store does not enforce the foreign key.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return internal.NewStoreError(err)
		}
		if count == 0 {
			return internal.ErrEmployeeNotFound
		}

		if err := tx.Model(&assetDatamodel.Asset{}).
			Where("employee_id = ?", id).
			Update("employee_id", gorm.Expr("NULL")).Error; err != nil {
			return internal.NewStoreError(err)
		}

		if err := tx.Where("id = ?", id).Delete(&employeeDatamodel.Employee{}).Error; err != nil {
			return internal.NewStoreError(err)
		}
		return nil
	})
	return internal.StoreErrorf(err)
}
