package employee

type CreateEmployeeDTO struct {
	Name       string `json:"name" validate:"notblank,max=100"`
	Department string `json:"department" validate:"max=100"`
	Position   string `json:"position" validate:"max=100"`
	Email      string `json:"email" validate:"max=100"`
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
	Count     int         `json:"count"`
}
