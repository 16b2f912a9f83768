package crm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/masterdata"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// referencePageSize bounds how many masterdata rows of one kind a tenant
// can reference from a spreadsheet
const referencePageSize = 5000

// ReferenceData loads the masterdata a spreadsheet refers to by name or code
type ReferenceData interface {
	Lookup(ctx context.Context, tenantID uuid.UUID) (*Lookup, error)
}

// Lookup translates between masterdata IDs and their spreadsheet labels:
// country ISO codes, currency codes and industry names
type Lookup struct {
	countryCode  map[uuid.UUID]string
	countryID    map[string]uuid.UUID
	currencyCode map[uuid.UUID]string
	currencyID   map[string]uuid.UUID
	industryName map[uuid.UUID]string
	industryID   map[string]uuid.UUID
}

// NewLookup indexes the given masterdata
func NewLookup(countries []masterdata.Country, currencies []masterdata.Currency, industries []masterdata.Industry) *Lookup {
	l := &Lookup{
		countryCode:  make(map[uuid.UUID]string, len(countries)),
		countryID:    make(map[string]uuid.UUID, len(countries)),
		currencyCode: make(map[uuid.UUID]string, len(currencies)),
		currencyID:   make(map[string]uuid.UUID, len(currencies)),
		industryName: make(map[uuid.UUID]string, len(industries)),
		industryID:   make(map[string]uuid.UUID, len(industries)),
	}
	for _, c := range countries {
		l.countryCode[c.ID] = c.ISOCode
		l.countryID[labelKey(c.ISOCode)] = c.ID
		l.countryID[labelKey(c.Name)] = c.ID
	}
	for _, c := range currencies {
		l.currencyCode[c.ID] = c.Code
		l.currencyID[labelKey(c.Code)] = c.ID
	}
	for _, i := range industries {
		l.industryName[i.ID] = i.Name
		l.industryID[labelKey(i.Name)] = i.ID
	}
	return l
}

func labelKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CountryLabel returns the ISO code of a country, or "" when unknown
func (l *Lookup) CountryLabel(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return l.countryCode[*id]
}

// CurrencyLabel returns the currency code, or "" when unknown
func (l *Lookup) CurrencyLabel(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return l.currencyCode[*id]
}

// CountriesLabel joins the ISO codes of ids with "; "
func (l *Lookup) CountriesLabel(ids []uuid.UUID) string {
	return joinLabels(ids, l.countryCode)
}

// IndustriesLabel joins the industry names of ids with "; "
func (l *Lookup) IndustriesLabel(ids []uuid.UUID) string {
	return joinLabels(ids, l.industryName)
}

func joinLabels(ids []uuid.UUID, names map[uuid.UUID]string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "; ")
}

// CountryID resolves an ISO code or country name
func (l *Lookup) CountryID(label string) (uuid.UUID, bool) {
	id, ok := l.countryID[labelKey(label)]
	return id, ok
}

// CurrencyID resolves a currency code
func (l *Lookup) CurrencyID(label string) (uuid.UUID, bool) {
	id, ok := l.currencyID[labelKey(label)]
	return id, ok
}

// IndustryID resolves an industry name
func (l *Lookup) IndustryID(label string) (uuid.UUID, bool) {
	id, ok := l.industryID[labelKey(label)]
	return id, ok
}

// MasterdataReferences implements ReferenceData on the masterdata repositories
type MasterdataReferences struct {
	countries  masterdata.CountryRepository
	currencies masterdata.CurrencyRepository
	industries masterdata.IndustryRepository
}

// NewMasterdataReferences creates a MasterdataReferences
func NewMasterdataReferences(countries masterdata.CountryRepository, currencies masterdata.CurrencyRepository, industries masterdata.IndustryRepository) *MasterdataReferences {
	return &MasterdataReferences{countries: countries, currencies: currencies, industries: industries}
}

// Lookup loads every country, currency and industry of the tenant
func (m *MasterdataReferences) Lookup(ctx context.Context, tenantID uuid.UUID) (*Lookup, error) {
	all := shared.Filter{Page: 1, PageSize: referencePageSize, Filters: map[string]any{}}
	countries, _, err := m.countries.FindAll(ctx, tenantID, all)
	if err != nil {
		return nil, err
	}
	currencies, _, err := m.currencies.FindAll(ctx, tenantID, all)
	if err != nil {
		return nil, err
	}
	industries, _, err := m.industries.FindAll(ctx, tenantID, all)
	if err != nil {
		return nil, err
	}
	return NewLookup(countries, currencies, industries), nil
}
