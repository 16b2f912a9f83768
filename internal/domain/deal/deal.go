package deal

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// Status is the commercial status of a deal, independent of its stage
type Status string

const (
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusWon, StatusLost, StatusCancelled:
		return true
	}
	return false
}

// Priority ranks deals for the team
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// CodePrefix prefixes generated deal codes
const CodePrefix = "DL"

// AggregateType identifies deals in domain events
const AggregateType = "Deal"

// Deal is a prospective transaction between a buyer and a seller
type Deal struct {
	shared.TenantAggregateRoot
	Code              string
	Name              string
	BuyerID           *uuid.UUID
	SellerID          *uuid.UUID
	PartnerID         *uuid.UUID
	PICID             *uuid.UUID
	StageCode         StageCode
	ProgressPercent   int
	Status            Status
	Priority          Priority
	EstimatedValue    *decimal.Decimal
	CurrencyID        *uuid.UUID
	ExpectedCloseDate *time.Time
	Description       string
}

// Input is the editable state of a deal
type Input struct {
	Name              string
	BuyerID           *uuid.UUID
	SellerID          *uuid.UUID
	PartnerID         *uuid.UUID
	PICID             *uuid.UUID
	Status            Status
	Priority          Priority
	EstimatedValue    *decimal.Decimal
	CurrencyID        *uuid.UUID
	ExpectedCloseDate *time.Time
	Description       string
}

// NewDeal creates a deal at the given stage, K when empty
func NewDeal(tenantID uuid.UUID, seq int64, stage StageCode, in Input) (*Deal, error) {
	if stage == "" {
		stage = StageK
	}
	if !stage.IsValid() {
		return nil, shared.NewValidationError("stage_code", "Unknown stage code")
	}
	d := &Deal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                organization.FormatCode(CodePrefix, seq),
		StageCode:           stage,
		ProgressPercent:     stage.Progress(),
	}
	if err := d.apply(in); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the editable attributes. Stage changes go through ChangeStage.
func (d *Deal) Update(in Input) error {
	if err := d.apply(in); err != nil {
		return err
	}
	d.Touch()
	return nil
}

func (d *Deal) apply(in Input) error {
	v := &shared.ValidationError{}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		v.Add("name", "This field is required")
	}
	if in.Status == "" {
		in.Status = StatusActive
	} else if !in.Status.IsValid() {
		v.Add("status", "Must be one of: active, on_hold, won, lost, cancelled")
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	} else if !in.Priority.IsValid() {
		v.Add("priority", "Must be one of: low, medium, high")
	}
	if in.EstimatedValue != nil && in.EstimatedValue.IsNegative() {
		v.Add("estimated_value", "Must be 0 or greater")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	d.Name = in.Name
	d.BuyerID = in.BuyerID
	d.SellerID = in.SellerID
	d.PartnerID = in.PartnerID
	d.PICID = in.PICID
	d.Status = in.Status
	d.Priority = in.Priority
	d.EstimatedValue = in.EstimatedValue
	d.CurrencyID = in.CurrencyID
	d.ExpectedCloseDate = in.ExpectedCloseDate
	d.Description = strings.TrimSpace(in.Description)
	return nil
}

// ChangeStage moves the deal to target. Any stage may follow any other.
// Moving to the current stage returns a nil history entry and records nothing.
// A real change sets the progress from the catalog and queues a
// DealStageChangedEvent.
func (d *Deal) ChangeStage(target StageCode, changedBy uuid.UUID) (*StageHistory, error) {
	if !target.IsValid() {
		return nil, shared.NewValidationError("stage_code", "Unknown stage code")
	}
	if target == d.StageCode {
		return nil, nil
	}
	from := d.StageCode
	d.StageCode = target
	d.ProgressPercent = target.Progress()
	d.Touch()

	entry := NewStageHistory(d.TenantID, d.ID, from, target, changedBy)
	d.AddDomainEvent(NewDealStageChangedEvent(d, from, changedBy))
	return entry, nil
}
