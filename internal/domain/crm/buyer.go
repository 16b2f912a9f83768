package crm

import (
	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// Buyer is an acquirer looking for targets
type Buyer struct {
	shared.TenantAggregateRoot
	Record
	PartnerID   *uuid.UUID
	Overview    CompanyOverview
	Financials  *FinancialDetails
	Preferences *TargetPreferences
	Teaser      *TeaserCenter
}

// BuyerInput is the full editable state of a buyer, details included
type BuyerInput struct {
	RecordInput
	PartnerID   *uuid.UUID
	Overview    CompanyOverview
	Financials  *FinancialDetails
	Preferences *TargetPreferences
	Teaser      *TeaserCenter
}

// NewBuyer creates a buyer. The code is assigned from the tenant sequence.
func NewBuyer(tenantID uuid.UUID, seq int64, in BuyerInput) (*Buyer, error) {
	b := &Buyer{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := b.apply(in); err != nil {
		return nil, err
	}
	b.Code = organization.FormatCode(BuyerCodePrefix, seq)
	return b, nil
}

// Update replaces the buyer's attributes and details
func (b *Buyer) Update(in BuyerInput) error {
	if err := b.apply(in); err != nil {
		return err
	}
	b.Touch()
	return nil
}

func (b *Buyer) apply(in BuyerInput) error {
	v := &shared.ValidationError{}
	b.Record.apply(in.RecordInput, v)
	in.Overview.validate(v)
	if in.Financials != nil {
		in.Financials.validate(v)
	}
	if in.Preferences != nil {
		in.Preferences.validate(v)
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if in.Teaser != nil {
		in.Teaser.syncPublication(b.Teaser)
	}
	b.PartnerID = in.PartnerID
	b.Overview = in.Overview
	b.Financials = in.Financials
	b.Preferences = in.Preferences
	b.Teaser = in.Teaser
	return nil
}
