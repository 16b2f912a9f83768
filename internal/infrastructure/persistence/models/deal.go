package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/deal"
)

// DealModel is the persistence model for deals
type DealModel struct {
	TenantAggregateModel
	Code              string           `gorm:"column:deal_code;type:varchar(30);not null;index"`
	Name              string           `gorm:"type:varchar(255);not null"`
	BuyerID           *uuid.UUID       `gorm:"type:uuid;index"`
	SellerID          *uuid.UUID       `gorm:"type:uuid;index"`
	PartnerID         *uuid.UUID       `gorm:"type:uuid;index"`
	PICID             *uuid.UUID       `gorm:"column:pic_id;type:uuid;index"`
	StageCode         deal.StageCode   `gorm:"type:varchar(1);not null;index"`
	ProgressPercent   int              `gorm:"not null"`
	Status            deal.Status      `gorm:"type:varchar(20);not null;index"`
	Priority          deal.Priority    `gorm:"type:varchar(10);not null"`
	EstimatedValue    *decimal.Decimal `gorm:"type:decimal(20,2)"`
	CurrencyID        *uuid.UUID       `gorm:"type:uuid"`
	ExpectedCloseDate *time.Time
	Description       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DealModel) TableName() string {
	return "deals"
}

// ToDomain converts the model to a domain Deal
func (m *DealModel) ToDomain() *deal.Deal {
	return &deal.Deal{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		BuyerID:             m.BuyerID,
		SellerID:            m.SellerID,
		PartnerID:           m.PartnerID,
		PICID:               m.PICID,
		StageCode:           m.StageCode,
		ProgressPercent:     m.ProgressPercent,
		Status:              m.Status,
		Priority:            m.Priority,
		EstimatedValue:      m.EstimatedValue,
		CurrencyID:          m.CurrencyID,
		ExpectedCloseDate:   m.ExpectedCloseDate,
		Description:         m.Description,
	}
}

// DealModelFromDomain creates a model from a domain Deal
func DealModelFromDomain(d *deal.Deal) *DealModel {
	m := &DealModel{
		Code:              d.Code,
		Name:              d.Name,
		BuyerID:           d.BuyerID,
		SellerID:          d.SellerID,
		PartnerID:         d.PartnerID,
		PICID:             d.PICID,
		StageCode:         d.StageCode,
		ProgressPercent:   d.ProgressPercent,
		Status:            d.Status,
		Priority:          d.Priority,
		EstimatedValue:    d.EstimatedValue,
		CurrencyID:        d.CurrencyID,
		ExpectedCloseDate: d.ExpectedCloseDate,
		Description:       d.Description,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// DealStageHistoryModel is one append-only stage log row
type DealStageHistoryModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	DealID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	FromStage deal.StageCode `gorm:"type:varchar(1);not null"`
	ToStage   deal.StageCode `gorm:"type:varchar(1);not null"`
	ChangedBy *uuid.UUID     `gorm:"type:uuid"`
	ChangedAt time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (DealStageHistoryModel) TableName() string {
	return "deal_stage_histories"
}

// ToDomain converts the model to a domain StageHistory
func (m *DealStageHistoryModel) ToDomain() deal.StageHistory {
	return deal.StageHistory{
		ID:        m.ID,
		TenantID:  m.TenantID,
		DealID:    m.DealID,
		FromStage: m.FromStage,
		ToStage:   m.ToStage,
		ChangedBy: m.ChangedBy,
		ChangedAt: m.ChangedAt,
	}
}

// DealStageHistoryModelFromDomain creates a model from a domain StageHistory
func DealStageHistoryModelFromDomain(h *deal.StageHistory) *DealStageHistoryModel {
	return &DealStageHistoryModel{
		ID:        h.ID,
		TenantID:  h.TenantID,
		DealID:    h.DealID,
		FromStage: h.FromStage,
		ToStage:   h.ToStage,
		ChangedBy: h.ChangedBy,
		ChangedAt: h.ChangedAt,
	}
}
