package masterdata

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/shared"
	"golang.org/x/text/currency"
)

// Currency is a tenant-configured ISO 4217 currency with an exchange rate
// relative to the tenant's reporting currency
type Currency struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Symbol       string
	ExchangeRate decimal.Decimal
	IsActive     bool
}

// NewCurrency creates an active currency
func NewCurrency(tenantID uuid.UUID, code, name, symbol string, rate decimal.Decimal) (*Currency, error) {
	c := &Currency{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	normalized, err := normalizeCurrencyCode(code)
	if err != nil {
		return nil, err
	}
	c.Code = normalized
	if err := c.apply(name, symbol, rate); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the display attributes and rate
func (c *Currency) Update(name, symbol string, rate decimal.Decimal, active bool) error {
	if err := c.apply(name, symbol, rate); err != nil {
		return err
	}
	c.IsActive = active
	c.Touch()
	return nil
}

func (c *Currency) apply(name, symbol string, rate decimal.Decimal) error {
	v := &shared.ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" {
		v.Add("name", "This field is required")
	} else if len(name) > 100 {
		v.Add("name", "Must be at most 100 characters")
	}
	if len(symbol) > 10 {
		v.Add("symbol", "Must be at most 10 characters")
	}
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	if rate.IsNegative() {
		v.Add("exchange_rate", "Must be greater than 0")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	c.Name = name
	c.Symbol = strings.TrimSpace(symbol)
	c.ExchangeRate = rate
	return nil
}

// normalizeCurrencyCode upper-cases the code and checks it against the ISO 4217 registry
func normalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", shared.NewValidationError("code", "Must be exactly 3 characters")
	}
	if _, err := currency.ParseISO(code); err != nil {
		return "", shared.NewValidationError("code", "Unknown ISO 4217 currency code")
	}
	return code, nil
}
