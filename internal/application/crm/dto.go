package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/crm"
)

// =============================================================================
// Detail DTOs, shared by requests and responses
// =============================================================================

// CompanyOverviewDTO is the company behind a record
type CompanyOverviewDTO struct {
	CompanyName         string      `json:"company_name" binding:"required,max=200"`
	LegalName           string      `json:"legal_name" binding:"max=200"`
	Website             string      `json:"website" binding:"max=255"`
	Email               string      `json:"email" binding:"omitempty,email,max=200"`
	Phone               string      `json:"phone" binding:"max=50"`
	HQCountryID         *uuid.UUID  `json:"hq_country_id"`
	HQAddress           string      `json:"hq_address" binding:"max=500"`
	YearFounded         *int        `json:"year_founded"`
	EmployeeCount       *int        `json:"employee_count" binding:"omitempty,min=0"`
	BusinessDescription string      `json:"business_description"`
	IndustryIDs         []uuid.UUID `json:"industry_ids"`
}

func (d CompanyOverviewDTO) toDomain() crm.CompanyOverview {
	return crm.CompanyOverview{
		CompanyName:         d.CompanyName,
		LegalName:           d.LegalName,
		Website:             d.Website,
		Email:               d.Email,
		Phone:               d.Phone,
		HQCountryID:         d.HQCountryID,
		HQAddress:           d.HQAddress,
		YearFounded:         d.YearFounded,
		EmployeeCount:       d.EmployeeCount,
		BusinessDescription: d.BusinessDescription,
		IndustryIDs:         d.IndustryIDs,
	}
}

func toOverviewDTO(o crm.CompanyOverview) CompanyOverviewDTO {
	ids := o.IndustryIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return CompanyOverviewDTO{
		CompanyName:         o.CompanyName,
		LegalName:           o.LegalName,
		Website:             o.Website,
		Email:               o.Email,
		Phone:               o.Phone,
		HQCountryID:         o.HQCountryID,
		HQAddress:           o.HQAddress,
		YearFounded:         o.YearFounded,
		EmployeeCount:       o.EmployeeCount,
		BusinessDescription: o.BusinessDescription,
		IndustryIDs:         ids,
	}
}

// FinancialDetailsDTO carries headline financials
type FinancialDetailsDTO struct {
	CurrencyID          *uuid.UUID       `json:"currency_id"`
	FiscalYear          *int             `json:"fiscal_year"`
	AnnualRevenue       *decimal.Decimal `json:"annual_revenue"`
	EBITDA              *decimal.Decimal `json:"ebitda"`
	NetProfit           *decimal.Decimal `json:"net_profit"`
	TotalAssets         *decimal.Decimal `json:"total_assets"`
	ExpectedValuation   *decimal.Decimal `json:"expected_valuation"`
	InvestmentBudgetMin *decimal.Decimal `json:"investment_budget_min"`
	InvestmentBudgetMax *decimal.Decimal `json:"investment_budget_max"`
}

func (d *FinancialDetailsDTO) toDomain() *crm.FinancialDetails {
	if d == nil {
		return nil
	}
	f := crm.FinancialDetails(*d)
	return &f
}

func toFinancialsDTO(f *crm.FinancialDetails) *FinancialDetailsDTO {
	if f == nil {
		return nil
	}
	d := FinancialDetailsDTO(*f)
	return &d
}

// TargetPreferencesDTO describes what a buyer wants to acquire
type TargetPreferencesDTO struct {
	IndustryIDs         []uuid.UUID      `json:"industry_ids"`
	CountryIDs          []uuid.UUID      `json:"country_ids"`
	DealSizeMin         *decimal.Decimal `json:"deal_size_min"`
	DealSizeMax         *decimal.Decimal `json:"deal_size_max"`
	OwnershipPreference string           `json:"ownership_preference" binding:"omitempty,oneof=full majority minority any"`
	InvestmentCriteria  string           `json:"investment_criteria"`
}

func (d *TargetPreferencesDTO) toDomain() *crm.TargetPreferences {
	if d == nil {
		return nil
	}
	return &crm.TargetPreferences{
		IndustryIDs:         d.IndustryIDs,
		CountryIDs:          d.CountryIDs,
		DealSizeMin:         d.DealSizeMin,
		DealSizeMax:         d.DealSizeMax,
		OwnershipPreference: crm.OwnershipPreference(d.OwnershipPreference),
		InvestmentCriteria:  d.InvestmentCriteria,
	}
}

func toPreferencesDTO(p *crm.TargetPreferences) *TargetPreferencesDTO {
	if p == nil {
		return nil
	}
	return &TargetPreferencesDTO{
		IndustryIDs:         nonNilIDs(p.IndustryIDs),
		CountryIDs:          nonNilIDs(p.CountryIDs),
		DealSizeMin:         p.DealSizeMin,
		DealSizeMax:         p.DealSizeMax,
		OwnershipPreference: string(p.OwnershipPreference),
		InvestmentCriteria:  p.InvestmentCriteria,
	}
}

// TeaserCenterDTO is the anonymized profile. PublishedAt is output only.
type TeaserCenterDTO struct {
	Headline    string     `json:"headline" binding:"max=255"`
	Summary     string     `json:"summary"`
	Highlights  string     `json:"highlights"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

func (d *TeaserCenterDTO) toDomain() *crm.TeaserCenter {
	if d == nil {
		return nil
	}
	return &crm.TeaserCenter{
		Headline:    d.Headline,
		Summary:     d.Summary,
		Highlights:  d.Highlights,
		IsPublished: d.IsPublished,
	}
}

func toTeaserDTO(t *crm.TeaserCenter) *TeaserCenterDTO {
	if t == nil {
		return nil
	}
	return &TeaserCenterDTO{
		Headline:    t.Headline,
		Summary:     t.Summary,
		Highlights:  t.Highlights,
		IsPublished: t.IsPublished,
		PublishedAt: t.PublishedAt,
	}
}

// PartnershipDetailsDTO holds the commercial terms with a partner
type PartnershipDetailsDTO struct {
	PartnershipType           string           `json:"partnership_type" binding:"omitempty,oneof=referral co_advisory introducer strategic"`
	CommissionRate            *decimal.Decimal `json:"commission_rate"`
	AgreementStart            *time.Time       `json:"agreement_start"`
	AgreementEnd              *time.Time       `json:"agreement_end"`
	SpecializationIndustryIDs []uuid.UUID      `json:"specialization_industry_ids"`
	MOUSigned                 bool             `json:"mou_signed"`
}

func (d *PartnershipDetailsDTO) toDomain() *crm.PartnershipDetails {
	if d == nil {
		return nil
	}
	return &crm.PartnershipDetails{
		PartnershipType:           crm.PartnershipType(d.PartnershipType),
		CommissionRate:            d.CommissionRate,
		AgreementStart:            d.AgreementStart,
		AgreementEnd:              d.AgreementEnd,
		SpecializationIndustryIDs: d.SpecializationIndustryIDs,
		MOUSigned:                 d.MOUSigned,
	}
}

func toPartnershipDTO(p *crm.PartnershipDetails) *PartnershipDetailsDTO {
	if p == nil {
		return nil
	}
	return &PartnershipDetailsDTO{
		PartnershipType:           string(p.PartnershipType),
		CommissionRate:            p.CommissionRate,
		AgreementStart:            p.AgreementStart,
		AgreementEnd:              p.AgreementEnd,
		SpecializationIndustryIDs: nonNilIDs(p.SpecializationIndustryIDs),
		MOUSigned:                 p.MOUSigned,
	}
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

// =============================================================================
// Record requests
// =============================================================================

// RecordFields are the attributes buyers, sellers and partners share
type RecordFields struct {
	Status string     `json:"status" binding:"omitempty,oneof=active inactive draft"`
	Source string     `json:"source" binding:"max=50"`
	PICID  *uuid.UUID `json:"pic_id"`
}

func (r RecordFields) toDomain() crm.RecordInput {
	return crm.RecordInput{Status: crm.RecordStatus(r.Status), Source: r.Source, PICID: r.PICID}
}

// BuyerRequest creates or replaces a buyer with all its details
type BuyerRequest struct {
	RecordFields
	PartnerID         *uuid.UUID            `json:"partner_id"`
	CompanyOverview   CompanyOverviewDTO    `json:"company_overview"`
	FinancialDetails  *FinancialDetailsDTO  `json:"financial_details"`
	TargetPreferences *TargetPreferencesDTO `json:"target_preferences"`
	TeaserCenter      *TeaserCenterDTO      `json:"teaser_center"`
}

func (r BuyerRequest) toDomain() crm.BuyerInput {
	return crm.BuyerInput{
		RecordInput: r.RecordFields.toDomain(),
		PartnerID:   r.PartnerID,
		Overview:    r.CompanyOverview.toDomain(),
		Financials:  r.FinancialDetails.toDomain(),
		Preferences: r.TargetPreferences.toDomain(),
		Teaser:      r.TeaserCenter.toDomain(),
	}
}

// SellerRequest creates or replaces a seller with all its details
type SellerRequest struct {
	RecordFields
	PartnerID        *uuid.UUID           `json:"partner_id"`
	SaleType         string               `json:"sale_type" binding:"omitempty,oneof=full_sale majority minority merger asset_sale"`
	SaleReason       string               `json:"sale_reason"`
	CompanyOverview  CompanyOverviewDTO   `json:"company_overview"`
	FinancialDetails *FinancialDetailsDTO `json:"financial_details"`
	TeaserCenter     *TeaserCenterDTO     `json:"teaser_center"`
}

func (r SellerRequest) toDomain() crm.SellerInput {
	return crm.SellerInput{
		RecordInput: r.RecordFields.toDomain(),
		PartnerID:   r.PartnerID,
		SaleType:    crm.SaleType(r.SaleType),
		SaleReason:  r.SaleReason,
		Overview:    r.CompanyOverview.toDomain(),
		Financials:  r.FinancialDetails.toDomain(),
		Teaser:      r.TeaserCenter.toDomain(),
	}
}

// PartnerRequest creates or replaces a partner with all its details
type PartnerRequest struct {
	RecordFields
	CompanyOverview    CompanyOverviewDTO     `json:"company_overview"`
	PartnershipDetails *PartnershipDetailsDTO `json:"partnership_details"`
}

func (r PartnerRequest) toDomain() crm.PartnerInput {
	return crm.PartnerInput{
		RecordInput: r.RecordFields.toDomain(),
		Overview:    r.CompanyOverview.toDomain(),
		Partnership: r.PartnershipDetails.toDomain(),
	}
}

// =============================================================================
// Responses
// =============================================================================

// RecordResponse holds the attributes shared by the three record responses
type RecordResponse struct {
	ID                uuid.UUID  `json:"id"`
	Status            string     `json:"status"`
	Source            string     `json:"source"`
	IsPinned          bool       `json:"is_pinned"`
	PICID             *uuid.UUID `json:"pic_id"`
	ProfilePicture    string     `json:"profile_picture"`
	ProfilePictureURL string     `json:"profile_picture_url"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// BuyerResponse is a buyer with all details
type BuyerResponse struct {
	RecordResponse
	BuyerCode         string                `json:"buyer_code"`
	PartnerID         *uuid.UUID            `json:"partner_id"`
	CompanyOverview   CompanyOverviewDTO    `json:"company_overview"`
	FinancialDetails  *FinancialDetailsDTO  `json:"financial_details"`
	TargetPreferences *TargetPreferencesDTO `json:"target_preferences"`
	TeaserCenter      *TeaserCenterDTO      `json:"teaser_center"`
}

// SellerResponse is a seller with all details
type SellerResponse struct {
	RecordResponse
	SellerCode       string               `json:"seller_code"`
	PartnerID        *uuid.UUID           `json:"partner_id"`
	SaleType         string               `json:"sale_type"`
	SaleReason       string               `json:"sale_reason"`
	CompanyOverview  CompanyOverviewDTO   `json:"company_overview"`
	FinancialDetails *FinancialDetailsDTO `json:"financial_details"`
	TeaserCenter     *TeaserCenterDTO     `json:"teaser_center"`
}

// PartnerResponse is a partner with all details
type PartnerResponse struct {
	RecordResponse
	PartnerCode        string                 `json:"partner_code"`
	CompanyOverview    CompanyOverviewDTO     `json:"company_overview"`
	PartnershipDetails *PartnershipDetailsDTO `json:"partnership_details"`
}

// PinResponse reports the new pin state
type PinResponse struct {
	ID       uuid.UUID `json:"id"`
	IsPinned bool      `json:"is_pinned"`
}
