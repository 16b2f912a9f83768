package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IndexFilter holds the parameters every CRM index accepts. A nil or empty
// field means the corresponding clause is omitted.
type IndexFilter struct {
	Search          string
	CountryID       *uuid.UUID
	RegisteredAfter *time.Time
	Status          RecordStatus
	Source          string
	IndustryIDs     []uuid.UUID
	PICID           *uuid.UUID
	IsPinned        *bool
	Sort            string
	Page            int
}

// BuyerFilter narrows the buyer index
type BuyerFilter struct {
	IndexFilter
	TargetCountryIDs []uuid.UUID
	RevenueMin       *decimal.Decimal
	RevenueMax       *decimal.Decimal
	EBITDAMin        *decimal.Decimal
	EBITDAMax        *decimal.Decimal
	// BudgetMin matches buyers whose investment_budget_max is at least this value
	BudgetMin *decimal.Decimal
	// BudgetMax matches buyers whose investment_budget_min is at most this value
	BudgetMax *decimal.Decimal
}

// SellerFilter narrows the seller index
type SellerFilter struct {
	IndexFilter
	SaleType     SaleType
	RevenueMin   *decimal.Decimal
	RevenueMax   *decimal.Decimal
	EBITDAMin    *decimal.Decimal
	EBITDAMax    *decimal.Decimal
	ValuationMin *decimal.Decimal
	ValuationMax *decimal.Decimal
}

// PartnerFilter narrows the partner index
type PartnerFilter struct {
	IndexFilter
	PartnershipType PartnershipType
	CommissionMin   *decimal.Decimal
	CommissionMax   *decimal.Decimal
}

// SortOrder is a parsed sort parameter
type SortOrder struct {
	Field string
	Desc  bool
}

// ParseSort parses "field" or "-field". ok is false for an empty value or
// a field outside allowed.
func ParseSort(raw string, allowed map[string]bool) (SortOrder, bool) {
	raw = strings.TrimSpace(raw)
	desc := strings.HasPrefix(raw, "-")
	field := strings.TrimPrefix(raw, "-")
	if field == "" || !allowed[field] {
		return SortOrder{}, false
	}
	return SortOrder{Field: field, Desc: desc}, true
}
