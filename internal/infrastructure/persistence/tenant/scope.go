// Package tenant provides tenant_id scoping helpers for GORM queries.
//
// Every repository query goes through one of these scopes so a record can
// never be read or written across tenants:
//
//	r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&buyers)
package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope applies tenant filtering to GORM queries
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// TableScope qualifies the tenant column with a table name. Queries that
// join detail tables need it because several tables carry tenant_id.
func TableScope(table string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".tenant_id = ?", tenantID)
	}
}
