package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// translateError maps gorm.ErrRecordNotFound to shared.ErrNotFound and a
// unique index violation to shared.ErrAlreadyExists
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// applySearch adds a case-insensitive substring match over columns.
// LOWER/LIKE keeps the query portable between Postgres and SQLite.
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// applyPagination applies the filter's page window
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

// applyOrder orders by a whitelisted field, falling back to defaultOrder
func applyOrder(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "")
	if field == "" {
		return query.Order(defaultOrder)
	}
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// nextCodeSequence returns one more than the highest numeric suffix among
// the tenant's codes carrying prefix. Codes whose suffix is not a number,
// such as a hand-picked EMP-LEAD, are skipped.
func nextCodeSequence(ctx context.Context, db *gorm.DB, table, column, prefix string, tenantID uuid.UUID) (int64, error) {
	var codes []string
	err := db.WithContext(ctx).Table(table).
		Scopes(tenant.Scope(tenantID)).
		Where(column+" LIKE ?", prefix+"-%").
		Pluck(column, &codes).Error
	if err != nil {
		return 0, err
	}
	return highestCodeSequence(codes, prefix) + 1, nil
}

// highestCodeSequence returns the largest numeric suffix of codes shaped
// PREFIX-digits, or 0 when none is. Comparing numbers keeps BY-100000
// above BY-99999.
func highestCodeSequence(codes []string, prefix string) int64 {
	var highest int64
	for _, code := range codes {
		suffix, ok := strings.CutPrefix(code, prefix+"-")
		if !ok || suffix == "" || strings.Trim(suffix, "0123456789") != "" {
			continue
		}
		n, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}

// deleteFolderLinks removes every file folder link of an owner. Callers run it
// inside the owner's delete transaction.
func deleteFolderLinks(tx *gorm.DB, tenantID uuid.UUID, ownerType string, ownerID uuid.UUID) error {
	return tx.Where("tenant_id = ? AND owner_type = ? AND owner_id = ?", tenantID, ownerType, ownerID).
		Delete(&models.FileFolderLinkModel{}).Error
}

// deleteTenantRow deletes one row of model by id within the tenant
func deleteTenantRow(ctx context.Context, db *gorm.DB, model any, tenantID, id uuid.UUID) error {
	result := db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
