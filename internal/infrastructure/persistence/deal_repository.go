package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormDealRepository implements deal.Repository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by ID within a tenant
func (r *GormDealRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*deal.Deal, error) {
	var model models.DealModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormDealRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.DealModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "deal_code", "name")
	if v, ok := filter.Filters["status"].(deal.Status); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	if v, ok := filter.Filters["stage_code"].(deal.StageCode); ok && v != "" {
		query = query.Where("stage_code = ?", v)
	}
	if v, ok := filter.Filters["stage_codes"].([]deal.StageCode); ok && len(v) > 0 {
		query = query.Where("stage_code IN ?", v)
	}
	return applyParentFilters(query, filter, "pic_id", "buyer_id", "seller_id", "partner_id")
}

// FindAll returns one page of deals and the total match count
func (r *GormDealRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]deal.Deal, int64, error) {
	query := r.filtered(ctx, tenantID, filter)
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.DealModel
	query = applyOrder(query, filter, DealSortFields, "created_at DESC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return dealsToDomain(rows), total, nil
}

// FindByStages returns every matching deal, newest first, for the pipeline board
func (r *GormDealRepository) FindByStages(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]deal.Deal, error) {
	var rows []models.DealModel
	if err := r.filtered(ctx, tenantID, filter).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return dealsToDomain(rows), nil
}

// CountByStage counts matching deals per stage. Stages without deals are absent.
func (r *GormDealRepository) CountByStage(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]deal.PipelineColumn, error) {
	var rows []struct {
		StageCode deal.StageCode
		Count     int64
	}
	err := r.filtered(ctx, tenantID, filter).
		Select("stage_code, COUNT(*) AS count").
		Group("stage_code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]deal.PipelineColumn, len(rows))
	for i, row := range rows {
		out[i] = deal.PipelineColumn{StageCode: row.StageCode, Count: row.Count}
	}
	return out, nil
}

// NextSequence returns the next number for a generated deal code
func (r *GormDealRepository) NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return nextCodeSequence(ctx, r.db, "deals", "deal_code", deal.CodePrefix, tenantID)
}

// Save creates or updates a deal
func (r *GormDealRepository) Save(ctx context.Context, d *deal.Deal) error {
	return translateError(r.db.WithContext(ctx).Save(models.DealModelFromDomain(d)).Error)
}

// SaveWithHistory writes the deal and appends entry in one transaction
func (r *GormDealRepository) SaveWithHistory(ctx context.Context, d *deal.Deal, entry *deal.StageHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.DealModelFromDomain(d)).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		return tx.Create(models.DealStageHistoryModelFromDomain(entry)).Error
	})
}

// History returns the deal's stage log, newest first
func (r *GormDealRepository) History(ctx context.Context, tenantID, dealID uuid.UUID) ([]deal.StageHistory, error) {
	var rows []models.DealStageHistoryModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("deal_id = ?", dealID).
		Order("changed_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]deal.StageHistory, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Delete removes the deal with its history and folder links in one transaction
func (r *GormDealRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND deal_id = ?", tenantID, id).
			Delete(&models.DealStageHistoryModel{}).Error; err != nil {
			return err
		}
		if err := deleteFolderLinks(tx, tenantID, models.OwnerDeal, id); err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.DealModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func dealsToDomain(rows []models.DealModel) []deal.Deal {
	out := make([]deal.Deal, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ deal.Repository = (*GormDealRepository)(nil)
