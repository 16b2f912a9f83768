package masterdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/masterdata"
)

// ListQuery is the query string accepted by every masterdata index
type ListQuery struct {
	Search   string
	IsActive *bool
	ParentID *uuid.UUID // industries only
	RootOnly bool       // industries only: broad industries
	Page     int
}

// =============================================================================
// Currency DTOs
// =============================================================================

// CreateCurrencyRequest creates a currency
type CreateCurrencyRequest struct {
	Code         string           `json:"code" binding:"required,len=3"`
	Name         string           `json:"name" binding:"required,max=100"`
	Symbol       string           `json:"symbol" binding:"max=10"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
}

// UpdateCurrencyRequest replaces the editable attributes of a currency
type UpdateCurrencyRequest struct {
	Name         string           `json:"name" binding:"required,max=100"`
	Symbol       string           `json:"symbol" binding:"max=10"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
	IsActive     *bool            `json:"is_active"`
}

// CurrencyResponse is a currency in API responses
type CurrencyResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToCurrencyResponse maps a currency
func ToCurrencyResponse(c *masterdata.Currency) CurrencyResponse {
	return CurrencyResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Symbol:       c.Symbol,
		ExchangeRate: c.ExchangeRate,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// =============================================================================
// Country DTOs
// =============================================================================

// CreateCountryRequest creates a country
type CreateCountryRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	ISOCode  string `json:"iso_code" binding:"required,len=2"`
	DialCode string `json:"dial_code" binding:"max=10"`
}

// UpdateCountryRequest replaces the editable attributes of a country
type UpdateCountryRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	DialCode string `json:"dial_code" binding:"max=10"`
	IsActive *bool  `json:"is_active"`
}

// CountryResponse is a country in API responses
type CountryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ISOCode   string    `json:"iso_code"`
	DialCode  string    `json:"dial_code"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCountryResponse maps a country
func ToCountryResponse(c *masterdata.Country) CountryResponse {
	return CountryResponse{
		ID:        c.ID,
		Name:      c.Name,
		ISOCode:   c.ISOCode,
		DialCode:  c.DialCode,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// =============================================================================
// Industry DTOs
// =============================================================================

// IndustryRequest creates or replaces an industry
type IndustryRequest struct {
	Name        string     `json:"name" binding:"required,max=150"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description string     `json:"description"`
	IsActive    *bool      `json:"is_active"`
}

// IndustryResponse is an industry in API responses
type IndustryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToIndustryResponse maps an industry
func ToIndustryResponse(i *masterdata.Industry) IndustryResponse {
	return IndustryResponse{
		ID:          i.ID,
		Name:        i.Name,
		ParentID:    i.ParentID,
		Description: i.Description,
		IsActive:    i.IsActive,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
