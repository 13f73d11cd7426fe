package postgres

import (
	"context"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/report"
	"github.com/jmoiron/sqlx"
)

const registerQuery = `
SELECT a.id AS asset_id,
       a.asset_type,
       a.brand,
       COALESCE(a.model, '')      AS model,
       COALESCE(a.part_no, '')    AS part_no,
       COALESCE(a.serial_no, '')  AS serial_no,
       COALESCE(a.location, '')   AS location,
       a.status,
       COALESCE(e.name, '')       AS employee_name,
       COALESCE(e.department, '') AS employee_department
FROM assets a
LEFT JOIN employees e ON e.id = a.employee_id
ORDER BY a.id`

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Rows(ctx context.Context) ([]report.Row, error) {
	rows := []report.Row{}
	if err := r.db.SelectContext(ctx, &rows, registerQuery); err != nil {
		return nil, internal.StoreErrorf(err)
	}
	return rows, nil
}
