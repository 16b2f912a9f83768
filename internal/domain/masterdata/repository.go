package masterdata

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// CurrencyRepository persists currencies
type CurrencyRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Currency, error)
	// FindAll supports Search and the "is_active" filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Currency, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, c *Currency) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CountryRepository persists countries
type CountryRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Country, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Country, int64, error)
	ExistsByISOCode(ctx context.Context, tenantID uuid.UUID, isoCode string) (bool, error)
	Save(ctx context.Context, c *Country) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// IndustryRepository persists industries
type IndustryRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Industry, error)
	// FindAll supports Search, "is_active" and "parent_id" ("root" for broad industries)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Industry, int64, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Industry, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, i *Industry) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
