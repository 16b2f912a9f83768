package crm

import (
	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// Partner is an external firm that introduces or co-advises deals
type Partner struct {
	shared.TenantAggregateRoot
	Record
	Overview    CompanyOverview
	Partnership *PartnershipDetails
}

// PartnerInput is the full editable state of a partner
type PartnerInput struct {
	RecordInput
	Overview    CompanyOverview
	Partnership *PartnershipDetails
}

// NewPartner creates a partner with a code derived from the tenant sequence
func NewPartner(tenantID uuid.UUID, seq int64, in PartnerInput) (*Partner, error) {
	p := &Partner{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := p.apply(in); err != nil {
		return nil, err
	}
	p.Code = organization.FormatCode(PartnerCodePrefix, seq)
	return p, nil
}

// Update replaces the partner's attributes and details
func (p *Partner) Update(in PartnerInput) error {
	if err := p.apply(in); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *Partner) apply(in PartnerInput) error {
	v := &shared.ValidationError{}
	p.Record.apply(in.RecordInput, v)
	in.Overview.validate(v)
	if in.Partnership != nil {
		in.Partnership.validate(v)
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	p.Overview = in.Overview
	p.Partnership = in.Partnership
	return nil
}
