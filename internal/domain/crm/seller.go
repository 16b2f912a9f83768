package crm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// SaleType is the kind of transaction a seller is open to
type SaleType string

const (
	SaleTypeFull      SaleType = "full_sale"
	SaleTypeMajority  SaleType = "majority"
	SaleTypeMinority  SaleType = "minority"
	SaleTypeMerger    SaleType = "merger"
	SaleTypeAssetSale SaleType = "asset_sale"
)

// IsValid reports whether the sale type is known
func (t SaleType) IsValid() bool {
	switch t {
	case SaleTypeFull, SaleTypeMajority, SaleTypeMinority, SaleTypeMerger, SaleTypeAssetSale:
		return true
	}
	return false
}

// Seller is a company owner looking to divest
type Seller struct {
	shared.TenantAggregateRoot
	Record
	PartnerID  *uuid.UUID
	SaleType   SaleType
	SaleReason string
	Overview   CompanyOverview
	Financials *FinancialDetails
	Teaser     *TeaserCenter
}

// SellerInput is the full editable state of a seller, details included
type SellerInput struct {
	RecordInput
	PartnerID  *uuid.UUID
	SaleType   SaleType
	SaleReason string
	Overview   CompanyOverview
	Financials *FinancialDetails
	Teaser     *TeaserCenter
}

// NewSeller creates a seller with a code derived from the tenant sequence
func NewSeller(tenantID uuid.UUID, seq int64, in SellerInput) (*Seller, error) {
	s := &Seller{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := s.apply(in); err != nil {
		return nil, err
	}
	s.Code = organization.FormatCode(SellerCodePrefix, seq)
	return s, nil
}

// Update replaces the seller's attributes and details
func (s *Seller) Update(in SellerInput) error {
	if err := s.apply(in); err != nil {
		return err
	}
	s.Touch()
	return nil
}

func (s *Seller) apply(in SellerInput) error {
	v := &shared.ValidationError{}
	s.Record.apply(in.RecordInput, v)
	if in.SaleType == "" {
		in.SaleType = SaleTypeFull
	} else if !in.SaleType.IsValid() {
		v.Add("sale_type", "Must be one of: full_sale, majority, minority, merger, asset_sale")
	}
	in.Overview.validate(v)
	if in.Financials != nil {
		in.Financials.validate(v)
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if in.Teaser != nil {
		in.Teaser.syncPublication(s.Teaser)
	}
	s.PartnerID = in.PartnerID
	s.SaleType = in.SaleType
	s.SaleReason = strings.TrimSpace(in.SaleReason)
	s.Overview = in.Overview
	s.Financials = in.Financials
	s.Teaser = in.Teaser
	return nil
}
