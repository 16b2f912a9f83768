package deal

import (
	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// EventTypeDealStageChanged is published after a stage transition commits
const EventTypeDealStageChanged = "deal.stage_changed"

// DealStageChangedEvent carries what notification handlers need to address recipients
type DealStageChangedEvent struct {
	shared.EventEnvelope
	DealCode  string     `json:"deal_code"`
	DealName  string     `json:"deal_name"`
	FromStage StageCode  `json:"from_stage"`
	ToStage   StageCode  `json:"to_stage"`
	Progress  int        `json:"progress_percent"`
	PICID     *uuid.UUID `json:"pic_id,omitempty"`
	ChangedBy uuid.UUID  `json:"changed_by"`
}

// NewDealStageChangedEvent builds the event from the deal's post-transition state
func NewDealStageChangedEvent(d *Deal, from StageCode, changedBy uuid.UUID) *DealStageChangedEvent {
	return &DealStageChangedEvent{
		EventEnvelope: shared.NewEventEnvelope(EventTypeDealStageChanged, AggregateType, d.ID, d.TenantID),
		DealCode:      d.Code,
		DealName:      d.Name,
		FromStage:     from,
		ToStage:       d.StageCode,
		Progress:      d.ProgressPercent,
		PICID:         d.PICID,
		ChangedBy:     changedBy,
	}
}
