package auth

import (
	"strings"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/core/common/validation"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

type RegisterDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d RegisterDTO) Normalize() RegisterDTO {
	return RegisterDTO{
		Username: strings.TrimSpace(d.Username),
		Password: d.Password,
	}
}

func (d RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(100)
	v.Field("password", d.Password).Required().MaxLength(maxPasswordBytes)
	return v.Validate()
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize applies the same username rule as registration.
func (d LoginDTO) Normalize() LoginDTO {
	return LoginDTO{
		Username: strings.TrimSpace(d.Username),
		Password: d.Password,
	}
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
