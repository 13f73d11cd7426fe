package employee

import (
	"time"

	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
)

type Employee struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewEmployee(dto CreateEmployeeDTO) *Employee {
	return &Employee{
		Name:       dto.Name,
		Department: dto.Department,
		Position:   dto.Position,
		Email:      dto.Email,
	}
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		Name:       e.Name,
		Department: datamodel.NullableString(e.Department),
		Position:   datamodel.NullableString(e.Position),
		Email:      datamodel.NullableString(e.Email),
		CreatedAt:  e.CreatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		Name:       e.Name,
		Department: datamodel.StringValue(e.Department),
		Position:   datamodel.StringValue(e.Position),
		Email:      datamodel.StringValue(e.Email),
		CreatedAt:  e.CreatedAt,
	}
}

func FromDataModelSlice(rows []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
