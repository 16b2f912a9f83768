package crm

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// CompanyOverview describes the company behind a buyer, seller or partner
type CompanyOverview struct {
	CompanyName         string
	LegalName           string
	Website             string
	Email               string
	Phone               string
	HQCountryID         *uuid.UUID
	HQAddress           string
	YearFounded         *int
	EmployeeCount       *int
	BusinessDescription string
	IndustryIDs         []uuid.UUID
}

func (o *CompanyOverview) validate(v *shared.ValidationError) {
	o.CompanyName = strings.TrimSpace(o.CompanyName)
	if o.CompanyName == "" {
		v.Add("company_overview.company_name", "This field is required")
	}
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	if o.Email != "" {
		if _, err := mail.ParseAddress(o.Email); err != nil {
			v.Add("company_overview.email", "Must be a valid email address")
		}
	}
	if o.YearFounded != nil && (*o.YearFounded < 1800 || *o.YearFounded > time.Now().Year()) {
		v.Add("company_overview.year_founded", "Must be a plausible year")
	}
	if o.EmployeeCount != nil && *o.EmployeeCount < 0 {
		v.Add("company_overview.employee_count", "Must be 0 or greater")
	}
	o.IndustryIDs = dedupeIDs(o.IndustryIDs)
}

// FinancialDetails carries the headline financials of a buyer or seller
type FinancialDetails struct {
	CurrencyID          *uuid.UUID
	FiscalYear          *int
	AnnualRevenue       *decimal.Decimal
	EBITDA              *decimal.Decimal
	NetProfit           *decimal.Decimal
	TotalAssets         *decimal.Decimal
	ExpectedValuation   *decimal.Decimal
	InvestmentBudgetMin *decimal.Decimal
	InvestmentBudgetMax *decimal.Decimal
}

func (f *FinancialDetails) validate(v *shared.ValidationError) {
	validateNonNegative(v, "financial_details.annual_revenue", f.AnnualRevenue)
	validateNonNegative(v, "financial_details.total_assets", f.TotalAssets)
	validateNonNegative(v, "financial_details.expected_valuation", f.ExpectedValuation)
	validateNonNegative(v, "financial_details.investment_budget_min", f.InvestmentBudgetMin)
	validateRange(v, "financial_details.investment_budget_min", f.InvestmentBudgetMin, f.InvestmentBudgetMax)
}

// OwnershipPreference is the stake a buyer is looking to acquire
type OwnershipPreference string

const (
	OwnershipFull     OwnershipPreference = "full"
	OwnershipMajority OwnershipPreference = "majority"
	OwnershipMinority OwnershipPreference = "minority"
	OwnershipAny      OwnershipPreference = "any"
)

// TargetPreferences describes what a buyer wants to acquire
type TargetPreferences struct {
	IndustryIDs         []uuid.UUID
	CountryIDs          []uuid.UUID
	DealSizeMin         *decimal.Decimal
	DealSizeMax         *decimal.Decimal
	OwnershipPreference OwnershipPreference
	InvestmentCriteria  string
}

func (p *TargetPreferences) validate(v *shared.ValidationError) {
	switch p.OwnershipPreference {
	case "":
		p.OwnershipPreference = OwnershipAny
	case OwnershipFull, OwnershipMajority, OwnershipMinority, OwnershipAny:
	default:
		v.Add("target_preferences.ownership_preference", "Must be one of: full, majority, minority, any")
	}
	validateNonNegative(v, "target_preferences.deal_size_min", p.DealSizeMin)
	validateRange(v, "target_preferences.deal_size_min", p.DealSizeMin, p.DealSizeMax)
	p.IndustryIDs = dedupeIDs(p.IndustryIDs)
	p.CountryIDs = dedupeIDs(p.CountryIDs)
}

// TeaserCenter is the anonymized profile shared with counterparties
type TeaserCenter struct {
	Headline    string
	Summary     string
	Highlights  string
	IsPublished bool
	PublishedAt *time.Time
}

// syncPublication stamps PublishedAt when the teaser becomes published and
// clears it when it is withdrawn
func (t *TeaserCenter) syncPublication(previous *TeaserCenter) {
	if !t.IsPublished {
		t.PublishedAt = nil
		return
	}
	if previous != nil && previous.IsPublished && previous.PublishedAt != nil {
		t.PublishedAt = previous.PublishedAt
		return
	}
	now := time.Now()
	t.PublishedAt = &now
}

// PartnershipType is the kind of arrangement with a partner
type PartnershipType string

const (
	PartnershipReferral   PartnershipType = "referral"
	PartnershipCoAdvisory PartnershipType = "co_advisory"
	PartnershipIntroducer PartnershipType = "introducer"
	PartnershipStrategic  PartnershipType = "strategic"
)

// IsValid reports whether the partnership type is known
func (t PartnershipType) IsValid() bool {
	switch t {
	case PartnershipReferral, PartnershipCoAdvisory, PartnershipIntroducer, PartnershipStrategic:
		return true
	}
	return false
}

// PartnershipDetails are the commercial terms agreed with a partner
type PartnershipDetails struct {
	PartnershipType           PartnershipType
	CommissionRate            *decimal.Decimal
	AgreementStart            *time.Time
	AgreementEnd              *time.Time
	SpecializationIndustryIDs []uuid.UUID
	MOUSigned                 bool
}

var hundred = decimal.NewFromInt(100)

func (d *PartnershipDetails) validate(v *shared.ValidationError) {
	if d.PartnershipType == "" {
		d.PartnershipType = PartnershipReferral
	} else if !d.PartnershipType.IsValid() {
		v.Add("partnership_details.partnership_type", "Must be one of: referral, co_advisory, introducer, strategic")
	}
	if d.CommissionRate != nil && (d.CommissionRate.IsNegative() || d.CommissionRate.GreaterThan(hundred)) {
		v.Add("partnership_details.commission_rate", "Must be between 0 and 100")
	}
	if d.AgreementStart != nil && d.AgreementEnd != nil && d.AgreementEnd.Before(*d.AgreementStart) {
		v.Add("partnership_details.agreement_end", "Must be on or after agreement_start")
	}
	d.SpecializationIndustryIDs = dedupeIDs(d.SpecializationIndustryIDs)
}

func validateRange(v *shared.ValidationError, field string, min, max *decimal.Decimal) {
	if min != nil && max != nil && min.GreaterThan(*max) {
		v.Add(field, "Must be less than or equal to the maximum")
	}
}

func validateNonNegative(v *shared.ValidationError, field string, d *decimal.Decimal) {
	if d != nil && d.IsNegative() {
		v.Add(field, "Must be 0 or greater")
	}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
