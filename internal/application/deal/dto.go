package deal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/deal"
)

const dateLayout = "2006-01-02"

// ListQuery is the deal index query string
type ListQuery struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=active on_hold won lost cancelled"`
	Stage     string `form:"stage"`
	PICID     string `form:"pic_id" binding:"omitempty,uuid"`
	BuyerID   string `form:"buyer_id" binding:"omitempty,uuid"`
	SellerID  string `form:"seller_id" binding:"omitempty,uuid"`
	PartnerID string `form:"partner_id" binding:"omitempty,uuid"`
	Page      int    `form:"page"`
}

// DealRequest creates a deal or replaces its editable attributes. On update
// a non-empty StageCode runs the stage transition.
type DealRequest struct {
	Name              string           `json:"name" binding:"required,max=200"`
	BuyerID           *uuid.UUID       `json:"buyer_id"`
	SellerID          *uuid.UUID       `json:"seller_id"`
	PartnerID         *uuid.UUID       `json:"partner_id"`
	PICID             *uuid.UUID       `json:"pic_id"`
	StageCode         string           `json:"stage_code" binding:"max=1"`
	Status            string           `json:"status" binding:"omitempty,oneof=active on_hold won lost cancelled"`
	Priority          string           `json:"priority" binding:"omitempty,oneof=low medium high"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value"`
	CurrencyID        *uuid.UUID       `json:"currency_id"`
	ExpectedCloseDate string           `json:"expected_close_date" binding:"omitempty,datetime=2006-01-02"`
	Description       string           `json:"description"`
}

func (r DealRequest) toDomain() (deal.Input, error) {
	in := deal.Input{
		Name:           r.Name,
		BuyerID:        r.BuyerID,
		SellerID:       r.SellerID,
		PartnerID:      r.PartnerID,
		PICID:          r.PICID,
		Status:         deal.Status(r.Status),
		Priority:       deal.Priority(r.Priority),
		EstimatedValue: r.EstimatedValue,
		CurrencyID:     r.CurrencyID,
		Description:    r.Description,
	}
	if r.ExpectedCloseDate != "" {
		t, err := time.Parse(dateLayout, r.ExpectedCloseDate)
		if err != nil {
			return in, err
		}
		in.ExpectedCloseDate = &t
	}
	return in, nil
}

// ChangeStageRequest moves a deal to another stage
type ChangeStageRequest struct {
	StageCode string `json:"stage_code" binding:"required"`
}

// DealResponse is a deal in API responses
type DealResponse struct {
	ID                uuid.UUID        `json:"id"`
	DealCode          string           `json:"deal_code"`
	Name              string           `json:"name"`
	BuyerID           *uuid.UUID       `json:"buyer_id"`
	SellerID          *uuid.UUID       `json:"seller_id"`
	PartnerID         *uuid.UUID       `json:"partner_id"`
	PICID             *uuid.UUID       `json:"pic_id"`
	StageCode         string           `json:"stage_code"`
	StageName         string           `json:"stage_name"`
	ProgressPercent   int              `json:"progress_percent"`
	Status            string           `json:"status"`
	Priority          string           `json:"priority"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value"`
	CurrencyID        *uuid.UUID       `json:"currency_id"`
	ExpectedCloseDate *string          `json:"expected_close_date"`
	Description       string           `json:"description"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToDealResponse maps a deal
func ToDealResponse(d *deal.Deal) DealResponse {
	resp := DealResponse{
		ID:              d.ID,
		DealCode:        d.Code,
		Name:            d.Name,
		BuyerID:         d.BuyerID,
		SellerID:        d.SellerID,
		PartnerID:       d.PartnerID,
		PICID:           d.PICID,
		StageCode:       string(d.StageCode),
		StageName:       d.StageCode.Name(),
		ProgressPercent: d.ProgressPercent,
		Status:          string(d.Status),
		Priority:        string(d.Priority),
		EstimatedValue:  d.EstimatedValue,
		CurrencyID:      d.CurrencyID,
		Description:     d.Description,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.ExpectedCloseDate != nil {
		s := d.ExpectedCloseDate.Format(dateLayout)
		resp.ExpectedCloseDate = &s
	}
	return resp
}

// StageChangeResponse reports the deal after a stage request. Changed is
// false when the deal already sat in the requested stage.
type StageChangeResponse struct {
	Deal    DealResponse          `json:"deal"`
	Changed bool                  `json:"changed"`
	History *StageHistoryResponse `json:"history"`
}

// StageHistoryResponse is one stage log entry
type StageHistoryResponse struct {
	ID            uuid.UUID  `json:"id"`
	DealID        uuid.UUID  `json:"deal_id"`
	FromStage     string     `json:"from_stage"`
	FromStageName string     `json:"from_stage_name"`
	ToStage       string     `json:"to_stage"`
	ToStageName   string     `json:"to_stage_name"`
	ChangedBy     *uuid.UUID `json:"changed_by"`
	ChangedAt     time.Time  `json:"changed_at"`
}

// ToStageHistoryResponse maps a stage log entry
func ToStageHistoryResponse(h *deal.StageHistory) StageHistoryResponse {
	return StageHistoryResponse{
		ID:            h.ID,
		DealID:        h.DealID,
		FromStage:     string(h.FromStage),
		FromStageName: h.FromStage.Name(),
		ToStage:       string(h.ToStage),
		ToStageName:   h.ToStage.Name(),
		ChangedBy:     h.ChangedBy,
		ChangedAt:     h.ChangedAt,
	}
}

// PipelineColumn is one stage of the kanban board
type PipelineColumn struct {
	deal.Stage
	Count int64          `json:"count"`
	Deals []DealResponse `json:"deals"`
}

// PipelineResponse is the kanban board, one column per stage in pipeline order
type PipelineResponse struct {
	Stages []PipelineColumn `json:"stages"`
	Total  int64            `json:"total"`
}
