package deal

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// PipelineColumn is the number of deals sitting in one stage
type PipelineColumn struct {
	StageCode StageCode
	Count     int64
}

// Repository persists deals and their stage history
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Deal, error)
	// FindAll honours Search and the "status", "stage_code", "pic_id",
	// "buyer_id", "seller_id" and "partner_id" filters
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Deal, int64, error)
	// FindByStages returns deals of the given stages for the pipeline board
	FindByStages(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Deal, error)
	CountByStage(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PipelineColumn, error)
	NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, d *Deal) error
	// SaveWithHistory writes the deal and appends the history entry in one transaction
	SaveWithHistory(ctx context.Context, d *Deal, entry *StageHistory) error
	// History returns the stage log, newest first
	History(ctx context.Context, tenantID, dealID uuid.UUID) ([]StageHistory, error)
	// Delete removes the deal, its history and its file folder links in one transaction
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
