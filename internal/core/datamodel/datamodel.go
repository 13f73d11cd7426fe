// Package datamodel holds the gorm row types shared by the repositories.
package datamodel

import (
	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
	sessionDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Models lists every row type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&sessionDatamodel.Session{},
		&employeeDatamodel.Employee{},
		&assetDatamodel.Asset{},
	}
}

// AutoMigrate builds the schema from the row types. Postgres deployments use
// the versioned migrations instead; this serves SQLite and the tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// NullableString maps a blank string to NULL.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue is the inverse of NullableString.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
