package deal

import (
	"time"

	"github.com/google/uuid"
)

// StageHistory is one immutable entry of a deal's stage log
type StageHistory struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	DealID    uuid.UUID
	FromStage StageCode
	ToStage   StageCode
	ChangedBy *uuid.UUID
	ChangedAt time.Time
}

// NewStageHistory records a transition happening now
func NewStageHistory(tenantID, dealID uuid.UUID, from, to StageCode, changedBy uuid.UUID) *StageHistory {
	h := &StageHistory{
		ID:        uuid.New(),
		TenantID:  tenantID,
		DealID:    dealID,
		FromStage: from,
		ToStage:   to,
		ChangedAt: time.Now(),
	}
	if changedBy != uuid.Nil {
		h.ChangedBy = &changedBy
	}
	return h
}
