package asset

import (
	"strings"

	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
)

// AssetDTO is the body of both create and update. Update is a full
// replacement, so omitted optional fields are cleared.
type AssetDTO struct {
	AssetType  string `json:"asset_type" validate:"notblank,max=50"`
	Brand      string `json:"brand" validate:"notblank,max=50"`
	Model      string `json:"model" validate:"max=50"`
	PartNo     string `json:"part_no" validate:"max=50"`
	SerialNo   string `json:"serial_no" validate:"max=50"`
	Location   string `json:"location" validate:"max=100"`
	Status     string `json:"status" validate:"max=50"`
	EmployeeID *int64 `json:"employee_id" validate:"omitempty,gt=0"`
}

// Normalize keeps every value as submitted except a blank status, which
// becomes Active. Empty optional fields are stored as NULL.
func (dto AssetDTO) Normalize() AssetDTO {
	out := dto
	if strings.TrimSpace(out.Status) == "" {
		out.Status = assetDatamodel.DefaultStatus
	}
	return out
}

type AssetsResponse struct {
	Assets []*Asset `json:"assets"`
	Count  int      `json:"count"`
	Query  string   `json:"query,omitempty"`
}
