package masterdata

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/masterdata"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// toFilter builds the repository filter for a masterdata index
func toFilter(q ListQuery) shared.Filter {
	f := shared.DefaultFilter()
	f.Page = shared.NormalizePage(q.Page)
	f.Search = strings.TrimSpace(q.Search)
	f.OrderBy = ""
	if q.IsActive != nil {
		f.Filters["is_active"] = *q.IsActive
	}
	if q.ParentID != nil {
		f.Filters["parent_id"] = *q.ParentID
	}
	if q.RootOnly {
		f.Filters["root_only"] = true
	}
	return f
}

func rateOrOne(rate *decimal.Decimal) decimal.Decimal {
	if rate == nil {
		return decimal.NewFromInt(1)
	}
	return *rate
}

// =============================================================================
// CurrencyService
// =============================================================================

// CurrencyService manages tenant currencies
type CurrencyService struct {
	repo   masterdata.CurrencyRepository
	logger *zap.Logger
}

// NewCurrencyService creates a CurrencyService
func NewCurrencyService(repo masterdata.CurrencyRepository, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{repo: repo, logger: logger}
}

// List returns one page of currencies
func (s *CurrencyService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[CurrencyResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[CurrencyResponse]{}, err
	}
	items := make([]CurrencyResponse, len(rows))
	for i := range rows {
		items[i] = ToCurrencyResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one currency
func (s *CurrencyService) Get(ctx context.Context, tenantID, id uuid.UUID) (*CurrencyResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCurrencyResponse(c)
	return &resp, nil
}

// Create adds a currency. Codes are unique per tenant.
func (s *CurrencyService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateCurrencyRequest) (*CurrencyResponse, error) {
	c, err := masterdata.NewCurrency(tenantID, req.Code, req.Name, req.Symbol, rateOrOne(req.ExchangeRate))
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, tenantID, c.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Currency with this code already exists")
	}
	c.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("currency created", zap.String("tenant_id", tenantID.String()), zap.String("code", c.Code))
	resp := ToCurrencyResponse(c)
	return &resp, nil
}

// Update replaces a currency's editable attributes
func (s *CurrencyService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCurrencyRequest) (*CurrencyResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	active := c.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	rate := c.ExchangeRate
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
	}
	if err := c.Update(req.Name, req.Symbol, rate, active); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCurrencyResponse(c)
	return &resp, nil
}

// Delete removes a currency
func (s *CurrencyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// =============================================================================
// CountryService
// =============================================================================

// CountryService manages tenant countries
type CountryService struct {
	repo   masterdata.CountryRepository
	logger *zap.Logger
}

// NewCountryService creates a CountryService
func NewCountryService(repo masterdata.CountryRepository, logger *zap.Logger) *CountryService {
	return &CountryService{repo: repo, logger: logger}
}

// List returns one page of countries
func (s *CountryService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[CountryResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[CountryResponse]{}, err
	}
	items := make([]CountryResponse, len(rows))
	for i := range rows {
		items[i] = ToCountryResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one country
func (s *CountryService) Get(ctx context.Context, tenantID, id uuid.UUID) (*CountryResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCountryResponse(c)
	return &resp, nil
}

// Create adds a country. ISO codes are unique per tenant.
func (s *CountryService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateCountryRequest) (*CountryResponse, error) {
	c, err := masterdata.NewCountry(tenantID, req.Name, req.ISOCode, req.DialCode)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByISOCode(ctx, tenantID, c.ISOCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Country with this ISO code already exists")
	}
	c.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("country created", zap.String("tenant_id", tenantID.String()), zap.String("iso_code", c.ISOCode))
	resp := ToCountryResponse(c)
	return &resp, nil
}

// Update replaces a country's editable attributes
func (s *CountryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCountryRequest) (*CountryResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	active := c.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := c.Update(req.Name, req.DialCode, active); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCountryResponse(c)
	return &resp, nil
}

// Delete removes a country
func (s *CountryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// =============================================================================
// IndustryService
// =============================================================================

// IndustryService manages the two-level industry taxonomy
type IndustryService struct {
	repo   masterdata.IndustryRepository
	logger *zap.Logger
}

// NewIndustryService creates an IndustryService
func NewIndustryService(repo masterdata.IndustryRepository, logger *zap.Logger) *IndustryService {
	return &IndustryService{repo: repo, logger: logger}
}

// List returns one page of industries
func (s *IndustryService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[IndustryResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[IndustryResponse]{}, err
	}
	items := make([]IndustryResponse, len(rows))
	for i := range rows {
		items[i] = ToIndustryResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one industry
func (s *IndustryService) Get(ctx context.Context, tenantID, id uuid.UUID) (*IndustryResponse, error) {
	i, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToIndustryResponse(i)
	return &resp, nil
}

// Create adds an industry. Names are unique per tenant, case-insensitively.
func (s *IndustryService) Create(ctx context.Context, tenantID, userID uuid.UUID, req IndustryRequest) (*IndustryResponse, error) {
	i, err := masterdata.NewIndustry(tenantID, req.Name, req.ParentID, req.Description)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		i.IsActive = *req.IsActive
	}
	if err := s.checkIndustry(ctx, i); err != nil {
		return nil, err
	}
	i.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}
	s.logger.Info("industry created", zap.String("tenant_id", tenantID.String()), zap.String("name", i.Name))
	resp := ToIndustryResponse(i)
	return &resp, nil
}

// Update replaces an industry's attributes
func (s *IndustryService) Update(ctx context.Context, tenantID, id uuid.UUID, req IndustryRequest) (*IndustryResponse, error) {
	i, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	active := i.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := i.Update(req.Name, req.ParentID, req.Description, active); err != nil {
		return nil, err
	}
	if err := s.checkIndustry(ctx, i); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}
	resp := ToIndustryResponse(i)
	return &resp, nil
}

// Delete removes an industry
func (s *IndustryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// checkIndustry enforces name uniqueness and that the parent exists
func (s *IndustryService) checkIndustry(ctx context.Context, i *masterdata.Industry) error {
	exists, err := s.repo.ExistsByName(ctx, i.TenantID, i.Name, i.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Industry with this name already exists")
	}
	if i.ParentID == nil {
		return nil
	}
	if _, err := s.repo.FindByID(ctx, i.TenantID, *i.ParentID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("parent_id", "Parent industry not found")
		}
		return err
	}
	return nil
}
