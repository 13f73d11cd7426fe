package asset

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
)

const DefaultStatus = "Active"

type Asset struct {
	ID         int64                       `gorm:"primaryKey"`
	AssetType  string                      `gorm:"column:asset_type;size:50;not null"`
	Brand      string                      `gorm:"column:brand;size:50;not null"`
	Model      *string                     `gorm:"column:model;size:50"`
	PartNo     *string                     `gorm:"column:part_no;size:50"`
	SerialNo   *string                     `gorm:"column:serial_no;size:50"`
	Location   *string                     `gorm:"column:location;size:100"`
	Status     string                      `gorm:"column:status;size:50;not null;default:'Active'"`
	EmployeeID *int64                      `gorm:"column:employee_id;index"`
	Employee   *employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt  time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Asset) TableName() string {
	return "assets"
}
