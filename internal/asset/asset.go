package asset

import (
	"time"

	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
)

type Asset struct {
	ID         int64        `json:"id"`
	AssetType  string       `json:"asset_type"`
	Brand      string       `json:"brand"`
	Model      string       `json:"model,omitempty"`
	PartNo     string       `json:"part_no,omitempty"`
	SerialNo   string       `json:"serial_no,omitempty"`
	Location   string       `json:"location,omitempty"`
	Status     string       `json:"status"`
	EmployeeID *int64       `json:"employee_id"`
	Employee   *EmployeeRef `json:"employee,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// EmployeeRef is the joined holder of an asset.
type EmployeeRef struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

func NewAsset(dto AssetDTO) *Asset {
	return &Asset{
		AssetType:  dto.AssetType,
		Brand:      dto.Brand,
		Model:      dto.Model,
		PartNo:     dto.PartNo,
		SerialNo:   dto.SerialNo,
		Location:   dto.Location,
		Status:     dto.Status,
		EmployeeID: dto.EmployeeID,
	}
}

func ToDataModel(a *Asset) *assetDatamodel.Asset {
	return &assetDatamodel.Asset{
		ID:         a.ID,
		AssetType:  a.AssetType,
		Brand:      a.Brand,
		Model:      datamodel.NullableString(a.Model),
		PartNo:     datamodel.NullableString(a.PartNo),
		SerialNo:   datamodel.NullableString(a.SerialNo),
		Location:   datamodel.NullableString(a.Location),
		Status:     a.Status,
		EmployeeID: a.EmployeeID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func FromDataModel(row *assetDatamodel.Asset) *Asset {
	return &Asset{
		ID:         row.ID,
		AssetType:  row.AssetType,
		Brand:      row.Brand,
		Model:      datamodel.StringValue(row.Model),
		PartNo:     datamodel.StringValue(row.PartNo),
		SerialNo:   datamodel.StringValue(row.SerialNo),
		Location:   datamodel.StringValue(row.Location),
		Status:     row.Status,
		EmployeeID: row.EmployeeID,
		Employee:   employeeRef(row.Employee),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*assetDatamodel.Asset) []*Asset {
	result := make([]*Asset, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}

func employeeRef(e *employeeDatamodel.Employee) *EmployeeRef {
	if e == nil {
		return nil
	}
	return &EmployeeRef{
		ID:         e.ID,
		Name:       e.Name,
		Department: datamodel.StringValue(e.Department),
	}
}
