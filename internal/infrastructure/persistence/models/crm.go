package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/crm"
)

// Industry scopes in record_industries
const (
	IndustryScopeCompany        = "company"
	IndustryScopeTarget         = "target"
	IndustryScopeSpecialization = "specialization"
)

// RecordColumns are the columns buyers, sellers and partners share
type RecordColumns struct {
	Status         crm.RecordStatus `gorm:"type:varchar(20);not null;index"`
	Source         string           `gorm:"type:varchar(50);index"`
	IsPinned       bool             `gorm:"not null;index"`
	PICID          *uuid.UUID       `gorm:"column:pic_id;type:uuid;index"`
	ProfilePicture string           `gorm:"type:varchar(500)"`
}

func recordColumnsFromDomain(r crm.Record) RecordColumns {
	return RecordColumns{
		Status:         r.Status,
		Source:         r.Source,
		IsPinned:       r.IsPinned,
		PICID:          r.PICID,
		ProfilePicture: r.ProfilePicture,
	}
}

func (c RecordColumns) toDomain(code string) crm.Record {
	return crm.Record{
		Code:           code,
		Status:         c.Status,
		Source:         c.Source,
		IsPinned:       c.IsPinned,
		PICID:          c.PICID,
		ProfilePicture: c.ProfilePicture,
	}
}

// BuyerModel is the persistence model for buyers
type BuyerModel struct {
	TenantAggregateModel
	Code string `gorm:"column:buyer_code;type:varchar(30);not null;index"`
	RecordColumns
	PartnerID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (BuyerModel) TableName() string {
	return "buyers"
}

// SellerModel is the persistence model for sellers
type SellerModel struct {
	TenantAggregateModel
	Code string `gorm:"column:seller_code;type:varchar(30);not null;index"`
	RecordColumns
	PartnerID  *uuid.UUID   `gorm:"type:uuid;index"`
	SaleType   crm.SaleType `gorm:"type:varchar(20);not null;index"`
	SaleReason string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SellerModel) TableName() string {
	return "sellers"
}

// PartnerModel is the persistence model for partners
type PartnerModel struct {
	TenantAggregateModel
	Code string `gorm:"column:partner_code;type:varchar(30);not null;index"`
	RecordColumns
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// DetailModel carries the key columns of a 1:1 detail row
type DetailModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func newDetailModel(tenantID uuid.UUID) DetailModel {
	now := time.Now()
	return DetailModel{ID: uuid.New(), TenantID: tenantID, CreatedAt: now, UpdatedAt: now}
}

// CompanyOverviewModel stores the company overview of any CRM record
type CompanyOverviewModel struct {
	DetailModel
	OwnerType           string     `gorm:"type:varchar(20);not null;index:idx_company_overviews_owner"`
	OwnerID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_company_overviews_owner"`
	CompanyName         string     `gorm:"type:varchar(255);not null;index"`
	LegalName           string     `gorm:"type:varchar(255)"`
	Website             string     `gorm:"type:varchar(255)"`
	Email               string     `gorm:"type:varchar(200)"`
	Phone               string     `gorm:"type:varchar(50)"`
	HQCountryID         *uuid.UUID `gorm:"column:hq_country_id;type:uuid;index"`
	HQAddress           string     `gorm:"column:hq_address;type:text"`
	YearFounded         *int
	EmployeeCount       *int
	BusinessDescription string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompanyOverviewModel) TableName() string {
	return "company_overviews"
}

// FinancialDetailsModel stores the financials of a buyer or seller
type FinancialDetailsModel struct {
	DetailModel
	OwnerType           string     `gorm:"type:varchar(20);not null;index:idx_financial_details_owner"`
	OwnerID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_financial_details_owner"`
	CurrencyID          *uuid.UUID `gorm:"type:uuid"`
	FiscalYear          *int
	AnnualRevenue       *decimal.Decimal `gorm:"type:decimal(20,2)"`
	EBITDA              *decimal.Decimal `gorm:"column:ebitda;type:decimal(20,2)"`
	NetProfit           *decimal.Decimal `gorm:"type:decimal(20,2)"`
	TotalAssets         *decimal.Decimal `gorm:"type:decimal(20,2)"`
	ExpectedValuation   *decimal.Decimal `gorm:"type:decimal(20,2)"`
	InvestmentBudgetMin *decimal.Decimal `gorm:"type:decimal(20,2)"`
	InvestmentBudgetMax *decimal.Decimal `gorm:"type:decimal(20,2)"`
}

// TableName returns the table name for GORM
func (FinancialDetailsModel) TableName() string {
	return "financial_details"
}

// TargetPreferencesModel stores what a buyer wants to acquire
type TargetPreferencesModel struct {
	DetailModel
	BuyerID             uuid.UUID               `gorm:"type:uuid;not null;index"`
	DealSizeMin         *decimal.Decimal        `gorm:"type:decimal(20,2)"`
	DealSizeMax         *decimal.Decimal        `gorm:"type:decimal(20,2)"`
	OwnershipPreference crm.OwnershipPreference `gorm:"type:varchar(20);not null"`
	InvestmentCriteria  string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TargetPreferencesModel) TableName() string {
	return "target_preferences"
}

// TeaserCenterModel stores the anonymized teaser of a buyer or seller
type TeaserCenterModel struct {
	DetailModel
	OwnerType   string    `gorm:"type:varchar(20);not null;index:idx_teaser_centers_owner"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_teaser_centers_owner"`
	Headline    string    `gorm:"type:varchar(255)"`
	Summary     string    `gorm:"type:text"`
	Highlights  string    `gorm:"type:text"`
	IsPublished bool      `gorm:"not null"`
	PublishedAt *time.Time
}

// TableName returns the table name for GORM
func (TeaserCenterModel) TableName() string {
	return "teaser_centers"
}

// PartnershipDetailsModel stores the commercial terms of a partner
type PartnershipDetailsModel struct {
	DetailModel
	PartnerID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	PartnershipType crm.PartnershipType `gorm:"type:varchar(20);not null;index"`
	CommissionRate  *decimal.Decimal    `gorm:"type:decimal(5,2)"`
	AgreementStart  *time.Time
	AgreementEnd    *time.Time
	MOUSigned       bool `gorm:"column:mou_signed;not null"`
}

// TableName returns the table name for GORM
func (PartnershipDetailsModel) TableName() string {
	return "partnership_details"
}

// RecordIndustryModel links a CRM record to an industry under a scope
type RecordIndustryModel struct {
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerType  string    `gorm:"type:varchar(20);primaryKey"`
	OwnerID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Scope      string    `gorm:"type:varchar(20);primaryKey"`
	IndustryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (RecordIndustryModel) TableName() string {
	return "record_industries"
}

// BuyerTargetCountryModel links a buyer to a target country
type BuyerTargetCountryModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CountryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (BuyerTargetCountryModel) TableName() string {
	return "buyer_target_countries"
}

// DetailRows holds every detail row of one CRM record
type DetailRows struct {
	Overview        *CompanyOverviewModel
	Financials      *FinancialDetailsModel
	Preferences     *TargetPreferencesModel
	Teaser          *TeaserCenterModel
	Partnership     *PartnershipDetailsModel
	Industries      []RecordIndustryModel
	TargetCountries []BuyerTargetCountryModel
}

func (d *DetailRows) industryIDs(scope string) []uuid.UUID {
	var ids []uuid.UUID
	for _, row := range d.Industries {
		if row.Scope == scope {
			ids = append(ids, row.IndustryID)
		}
	}
	return ids
}

func (d *DetailRows) addIndustries(tenantID uuid.UUID, ownerType string, ownerID uuid.UUID, scope string, ids []uuid.UUID) {
	for _, id := range ids {
		d.Industries = append(d.Industries, RecordIndustryModel{
			TenantID:   tenantID,
			OwnerType:  ownerType,
			OwnerID:    ownerID,
			Scope:      scope,
			IndustryID: id,
		})
	}
}

func overviewModel(tenantID uuid.UUID, ownerType string, ownerID uuid.UUID, o crm.CompanyOverview) *CompanyOverviewModel {
	return &CompanyOverviewModel{
		DetailModel:         newDetailModel(tenantID),
		OwnerType:           ownerType,
		OwnerID:             ownerID,
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
	}
}

func (d *DetailRows) overview() crm.CompanyOverview {
	o := crm.CompanyOverview{IndustryIDs: d.industryIDs(IndustryScopeCompany)}
	if m := d.Overview; m != nil {
		o.CompanyName = m.CompanyName
		o.LegalName = m.LegalName
		o.Website = m.Website
		o.Email = m.Email
		o.Phone = m.Phone
		o.HQCountryID = m.HQCountryID
		o.HQAddress = m.HQAddress
		o.YearFounded = m.YearFounded
		o.EmployeeCount = m.EmployeeCount
		o.BusinessDescription = m.BusinessDescription
	}
	return o
}

func financialsModel(tenantID uuid.UUID, ownerType string, ownerID uuid.UUID, f *crm.FinancialDetails) *FinancialDetailsModel {
	if f == nil {
		return nil
	}
	return &FinancialDetailsModel{
		DetailModel:         newDetailModel(tenantID),
		OwnerType:           ownerType,
		OwnerID:             ownerID,
		CurrencyID:          f.CurrencyID,
		FiscalYear:          f.FiscalYear,
		AnnualRevenue:       f.AnnualRevenue,
		EBITDA:              f.EBITDA,
		NetProfit:           f.NetProfit,
		TotalAssets:         f.TotalAssets,
		ExpectedValuation:   f.ExpectedValuation,
		InvestmentBudgetMin: f.InvestmentBudgetMin,
		InvestmentBudgetMax: f.InvestmentBudgetMax,
	}
}

func (d *DetailRows) financials() *crm.FinancialDetails {
	m := d.Financials
	if m == nil {
		return nil
	}
	return &crm.FinancialDetails{
		CurrencyID:          m.CurrencyID,
		FiscalYear:          m.FiscalYear,
		AnnualRevenue:       m.AnnualRevenue,
		EBITDA:              m.EBITDA,
		NetProfit:           m.NetProfit,
		TotalAssets:         m.TotalAssets,
		ExpectedValuation:   m.ExpectedValuation,
		InvestmentBudgetMin: m.InvestmentBudgetMin,
		InvestmentBudgetMax: m.InvestmentBudgetMax,
	}
}

func teaserModel(tenantID uuid.UUID, ownerType string, ownerID uuid.UUID, t *crm.TeaserCenter) *TeaserCenterModel {
	if t == nil {
		return nil
	}
	return &TeaserCenterModel{
		DetailModel: newDetailModel(tenantID),
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Headline:    t.Headline,
		Summary:     t.Summary,
		Highlights:  t.Highlights,
		IsPublished: t.IsPublished,
		PublishedAt: t.PublishedAt,
	}
}

func (d *DetailRows) teaser() *crm.TeaserCenter {
	m := d.Teaser
	if m == nil {
		return nil
	}
	return &crm.TeaserCenter{
		Headline:    m.Headline,
		Summary:     m.Summary,
		Highlights:  m.Highlights,
		IsPublished: m.IsPublished,
		PublishedAt: m.PublishedAt,
	}
}

// BuyerModelFromDomain creates the buyer row and its detail rows
func BuyerModelFromDomain(b *crm.Buyer) (*BuyerModel, DetailRows) {
	m := &BuyerModel{
		Code:          b.Code,
		RecordColumns: recordColumnsFromDomain(b.Record),
		PartnerID:     b.PartnerID,
	}
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)

	rows := DetailRows{
		Overview:   overviewModel(b.TenantID, OwnerBuyer, b.ID, b.Overview),
		Financials: financialsModel(b.TenantID, OwnerBuyer, b.ID, b.Financials),
		Teaser:     teaserModel(b.TenantID, OwnerBuyer, b.ID, b.Teaser),
	}
	rows.addIndustries(b.TenantID, OwnerBuyer, b.ID, IndustryScopeCompany, b.Overview.IndustryIDs)
	if p := b.Preferences; p != nil {
		rows.Preferences = &TargetPreferencesModel{
			DetailModel:         newDetailModel(b.TenantID),
			BuyerID:             b.ID,
			DealSizeMin:         p.DealSizeMin,
			DealSizeMax:         p.DealSizeMax,
			OwnershipPreference: p.OwnershipPreference,
			InvestmentCriteria:  p.InvestmentCriteria,
		}
		rows.addIndustries(b.TenantID, OwnerBuyer, b.ID, IndustryScopeTarget, p.IndustryIDs)
		for _, countryID := range p.CountryIDs {
			rows.TargetCountries = append(rows.TargetCountries, BuyerTargetCountryModel{
				TenantID:  b.TenantID,
				BuyerID:   b.ID,
				CountryID: countryID,
			})
		}
	}
	return m, rows
}

// ToDomain converts the buyer row and its detail rows to a domain Buyer
func (m *BuyerModel) ToDomain(rows DetailRows) *crm.Buyer {
	b := &crm.Buyer{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Record:              m.RecordColumns.toDomain(m.Code),
		PartnerID:           m.PartnerID,
		Overview:            rows.overview(),
		Financials:          rows.financials(),
		Teaser:              rows.teaser(),
	}
	if p := rows.Preferences; p != nil {
		prefs := &crm.TargetPreferences{
			IndustryIDs:         rows.industryIDs(IndustryScopeTarget),
			DealSizeMin:         p.DealSizeMin,
			DealSizeMax:         p.DealSizeMax,
			OwnershipPreference: p.OwnershipPreference,
			InvestmentCriteria:  p.InvestmentCriteria,
		}
		for _, c := range rows.TargetCountries {
			prefs.CountryIDs = append(prefs.CountryIDs, c.CountryID)
		}
		b.Preferences = prefs
	}
	return b
}

// SellerModelFromDomain creates the seller row and its detail rows
func SellerModelFromDomain(s *crm.Seller) (*SellerModel, DetailRows) {
	m := &SellerModel{
		Code:          s.Code,
		RecordColumns: recordColumnsFromDomain(s.Record),
		PartnerID:     s.PartnerID,
		SaleType:      s.SaleType,
		SaleReason:    s.SaleReason,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)

	rows := DetailRows{
		Overview:   overviewModel(s.TenantID, OwnerSeller, s.ID, s.Overview),
		Financials: financialsModel(s.TenantID, OwnerSeller, s.ID, s.Financials),
		Teaser:     teaserModel(s.TenantID, OwnerSeller, s.ID, s.Teaser),
	}
	rows.addIndustries(s.TenantID, OwnerSeller, s.ID, IndustryScopeCompany, s.Overview.IndustryIDs)
	return m, rows
}

// ToDomain converts the seller row and its detail rows to a domain Seller
func (m *SellerModel) ToDomain(rows DetailRows) *crm.Seller {
	return &crm.Seller{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Record:              m.RecordColumns.toDomain(m.Code),
		PartnerID:           m.PartnerID,
		SaleType:            m.SaleType,
		SaleReason:          m.SaleReason,
		Overview:            rows.overview(),
		Financials:          rows.financials(),
		Teaser:              rows.teaser(),
	}
}

// PartnerModelFromDomain creates the partner row and its detail rows
func PartnerModelFromDomain(p *crm.Partner) (*PartnerModel, DetailRows) {
	m := &PartnerModel{
		Code:          p.Code,
		RecordColumns: recordColumnsFromDomain(p.Record),
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)

	rows := DetailRows{
		Overview: overviewModel(p.TenantID, OwnerPartner, p.ID, p.Overview),
	}
	rows.addIndustries(p.TenantID, OwnerPartner, p.ID, IndustryScopeCompany, p.Overview.IndustryIDs)
	if d := p.Partnership; d != nil {
		rows.Partnership = &PartnershipDetailsModel{
			DetailModel:     newDetailModel(p.TenantID),
			PartnerID:       p.ID,
			PartnershipType: d.PartnershipType,
			CommissionRate:  d.CommissionRate,
			AgreementStart:  d.AgreementStart,
			AgreementEnd:    d.AgreementEnd,
			MOUSigned:       d.MOUSigned,
		}
		rows.addIndustries(p.TenantID, OwnerPartner, p.ID, IndustryScopeSpecialization, d.SpecializationIndustryIDs)
	}
	return m, rows
}

// ToDomain converts the partner row and its detail rows to a domain Partner
func (m *PartnerModel) ToDomain(rows DetailRows) *crm.Partner {
	p := &crm.Partner{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Record:              m.RecordColumns.toDomain(m.Code),
		Overview:            rows.overview(),
	}
	if d := rows.Partnership; d != nil {
		p.Partnership = &crm.PartnershipDetails{
			PartnershipType:           d.PartnershipType,
			CommissionRate:            d.CommissionRate,
			AgreementStart:            d.AgreementStart,
			AgreementEnd:              d.AgreementEnd,
			SpecializationIndustryIDs: rows.industryIDs(IndustryScopeSpecialization),
			MOUSigned:                 d.MOUSigned,
		}
	}
	return p
}
