package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/asset"
	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// searchColumns are matched by Search. employees.name comes from the LEFT JOIN.
var searchColumns = []string{
	"assets.asset_type",
	"assets.brand",
	"assets.model",
	"assets.part_no",
	"assets.serial_no",
	"assets.location",
	"assets.status",
	"employees.name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// updatableColumns is the full replacement set written by Update.
var updatableColumns = []string{
	"asset_type", "brand", "model", "part_no", "serial_no", "location", "status", "employee_id",
}

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) asset.RepositoryAPI {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(ctx context.Context, row *assetDatamodel.Asset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := employeeExists(tx, row.EmployeeID); err != nil {
			return err
		}
		if row.Status == "" {
			row.Status = assetDatamodel.DefaultStatus
		}

		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return internal.ErrUnknownEmployee
			}
			return internal.NewStoreError(err)
		}
		return tx.Preload("Employee").First(row, row.ID).Error
	})
	return internal.StoreErrorf(err)
}

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*assetDatamodel.Asset, error) {
	var row assetDatamodel.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Employee").Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAssetNotFound
		}
		return nil, internal.StoreErrorf(err)
	}
	return &row, nil
}

// Update overwrites every editable column, including clearing those left
// empty, and reloads the row so the caller sees what was stored.
func (r *AssetRepository) Update(ctx context.Context, row *assetDatamodel.Asset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing assetDatamodel.Asset
		if err := tx.Where("id = ?", row.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrAssetNotFound
			}
			return internal.NewStoreError(err)
		}

		if err := employeeExists(tx, row.EmployeeID); err != nil {
			return err
		}
		if row.Status == "" {
			row.Status = assetDatamodel.DefaultStatus
		}

		if err := tx.Model(&existing).Select(updatableColumns).Updates(row).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return internal.ErrUnknownEmployee
			}
			return internal.NewStoreError(err)
		}

		*row = assetDatamodel.Asset{}
		return tx.Preload("Employee").Where("id = ?", existing.ID).First(row).Error
	})
	return internal.StoreErrorf(err)
}

func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&assetDatamodel.Asset{})
		if result.Error != nil {
			return internal.NewStoreError(result.Error)
		}
		if result.RowsAffected == 0 {
			return internal.ErrAssetNotFound
		}
		return nil
	})
	return internal.StoreErrorf(err)
}

func (r *AssetRepository) List(ctx context.Context, opts asset.ListOptions) ([]*assetDatamodel.Asset, error) {
	var rows []*assetDatamodel.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Order("assets.id ASC")
		if opts.WithEmployee {
			q = q.Preload("Employee")
		}
		return q.Find(&rows).Error
	})
	if err != nil {
		return nil, internal.StoreErrorf(err)
	}
	return rows, nil
}

// Search matches the keyword as a literal, case-insensitive substring of any
// search column. LIKE wildcards in the keyword are escaped.
func (r *AssetRepository) Search(ctx context.Context, keyword string, opts asset.ListOptions) ([]*assetDatamodel.Asset, error) {
	if keyword == "" {
		return r.List(ctx, opts)
	}
	if r.db.Dialector.Name() == "sqlite" {
		return r.searchFolded(ctx, keyword, opts)
	}

	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	predicates := make([]string, len(searchColumns))
	args := make([]interface{}, len(searchColumns))
	for i, col := range searchColumns {
		predicates[i] = "LOWER(" + col + `) LIKE LOWER(?) ESCAPE '\'`
		args[i] = pattern
	}

	var rows []*assetDatamodel.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&assetDatamodel.Asset{}).
			Select("assets.*").
			Joins("LEFT JOIN employees ON employees.id = assets.employee_id").
			Where(strings.Join(predicates, " OR "), args...).
			Order("assets.id ASC")
		if opts.WithEmployee {
			q = q.Preload("Employee")
		}
		return q.Find(&rows).Error
	})
	if err != nil {
		return nil, internal.StoreErrorf(err)
	}
	return rows, nil
}

// searchFolded serves SQLite, whose LOWER only folds ASCII. Rows are filtered
// with Unicode case folding instead.
func (r *AssetRepository) searchFolded(ctx context.Context, keyword string, opts asset.ListOptions) ([]*assetDatamodel.Asset, error) {
	var all []*assetDatamodel.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Employee").Order("assets.id ASC").Find(&all).Error
	})
	if err != nil {
		return nil, internal.StoreErrorf(err)
	}

	needle := strings.ToLower(keyword)
	rows := make([]*assetDatamodel.Asset, 0, len(all))
	for _, row := range all {
		if !matchesFolded(row, needle) {
			continue
		}
		if !opts.WithEmployee {
			row.Employee = nil
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func matchesFolded(row *assetDatamodel.Asset, needle string) bool {
	fields := []string{row.AssetType, row.Brand, row.Status}
	for _, f := range []*string{row.Model, row.PartNo, row.SerialNo, row.Location} {
		if f != nil {
			fields = append(fields, *f)
		}
	}
	if row.Employee != nil {
		fields = append(fields, row.Employee.Name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func employeeExists(tx *gorm.DB, id *int64) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&employeeDatamodel.Employee{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return internal.NewStoreError(err)
	}
	if count == 0 {
		return internal.ErrUnknownEmployee
	}
	return nil
}
