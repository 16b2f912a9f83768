package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormBuyerRepository implements crm.BuyerRepository using GORM
type GormBuyerRepository struct {
	db *gorm.DB
}

// NewGormBuyerRepository creates a new GormBuyerRepository
func NewGormBuyerRepository(db *gorm.DB) *GormBuyerRepository {
	return &GormBuyerRepository{db: db}
}

// FindByID loads a buyer with all its details
func (r *GormBuyerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Buyer, error) {
	var model models.BuyerModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	details, err := loadDetails(ctx, r.db, models.OwnerBuyer, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(*details[id]), nil
}

func (r *GormBuyerRepository) filtered(ctx context.Context, tenantID uuid.UUID, f crm.BuyerFilter) *gorm.DB {
	t := buyerTable
	query := r.db.WithContext(ctx).Model(&models.BuyerModel{}).
		Scopes(tenant.TableScope(t.table, tenantID))
	query = t.joinFinancials(t.joinOverview(query))
	query = t.applyIndexFilter(query, f.IndexFilter)
	query = applyIDsFilter(query, t.col("id"),
		"SELECT buyer_id FROM buyer_target_countries WHERE country_id IN ?", f.TargetCountryIDs)
	query = applyDecimalRange(query, "financial_details.annual_revenue", f.RevenueMin, f.RevenueMax)
	query = applyDecimalRange(query, "financial_details.ebitda", f.EBITDAMin, f.EBITDAMax)
	if f.BudgetMin != nil {
		query = query.Where("financial_details.investment_budget_max >= ?", *f.BudgetMin)
	}
	if f.BudgetMax != nil {
		query = query.Where("financial_details.investment_budget_min <= ?", *f.BudgetMax)
	}
	return query
}

// FindAll returns one page of matching buyers and the total match count
func (r *GormBuyerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, f crm.BuyerFilter) ([]crm.Buyer, int64, error) {
	query := r.filtered(ctx, tenantID, f)
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.BuyerModel
	query = buyerTable.applyIndexOrder(query.Select(buyerTable.col("*")), f.Sort)
	if err := buyerTable.page(query, f.Page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	buyers, err := r.hydrate(ctx, rows)
	return buyers, total, err
}

// FindAllUnpaged returns every matching buyer in index order
func (r *GormBuyerRepository) FindAllUnpaged(ctx context.Context, tenantID uuid.UUID, f crm.BuyerFilter) ([]crm.Buyer, error) {
	var rows []models.BuyerModel
	query := buyerTable.applyIndexOrder(r.filtered(ctx, tenantID, f).Select(buyerTable.col("*")), f.Sort)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

func (r *GormBuyerRepository) hydrate(ctx context.Context, rows []models.BuyerModel) ([]crm.Buyer, error) {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	details, err := loadDetails(ctx, r.db, models.OwnerBuyer, ids)
	if err != nil {
		return nil, err
	}
	out := make([]crm.Buyer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(*details[rows[i].ID])
	}
	return out, nil
}

// NextSequence returns the next number for a generated buyer code
func (r *GormBuyerRepository) NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return nextCodeSequence(ctx, r.db, buyerTable.table, buyerTable.codeColumn, crm.BuyerCodePrefix, tenantID)
}

// Save writes the buyer and replaces its detail rows in one transaction
func (r *GormBuyerRepository) Save(ctx context.Context, b *crm.Buyer) error {
	model, rows := models.BuyerModelFromDomain(b)
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return replaceDetails(tx, b.TenantID, models.OwnerBuyer, b.ID, rows)
	}))
}

// Delete removes the buyer, its details and its folder links in one transaction
func (r *GormBuyerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteCRMRecord(ctx, r.db, &models.BuyerModel{}, models.OwnerBuyer, tenantID, id)
}

// GormSellerRepository implements crm.SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID loads a seller with all its details
func (r *GormSellerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Seller, error) {
	var model models.SellerModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	details, err := loadDetails(ctx, r.db, models.OwnerSeller, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(*details[id]), nil
}

func (r *GormSellerRepository) filtered(ctx context.Context, tenantID uuid.UUID, f crm.SellerFilter) *gorm.DB {
	t := sellerTable
	query := r.db.WithContext(ctx).Model(&models.SellerModel{}).
		Scopes(tenant.TableScope(t.table, tenantID))
	query = t.joinFinancials(t.joinOverview(query))
	query = t.applyIndexFilter(query, f.IndexFilter)
	if f.SaleType != "" {
		query = query.Where(t.col("sale_type")+" = ?", f.SaleType)
	}
	query = applyDecimalRange(query, "financial_details.annual_revenue", f.RevenueMin, f.RevenueMax)
	query = applyDecimalRange(query, "financial_details.ebitda", f.EBITDAMin, f.EBITDAMax)
	query = applyDecimalRange(query, "financial_details.expected_valuation", f.ValuationMin, f.ValuationMax)
	return query
}

// FindAll returns one page of matching sellers and the total match count
func (r *GormSellerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, f crm.SellerFilter) ([]crm.Seller, int64, error) {
	query := r.filtered(ctx, tenantID, f)
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SellerModel
	query = sellerTable.applyIndexOrder(query.Select(sellerTable.col("*")), f.Sort)
	if err := sellerTable.page(query, f.Page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	sellers, err := r.hydrate(ctx, rows)
	return sellers, total, err
}

// FindAllUnpaged returns every matching seller in index order
func (r *GormSellerRepository) FindAllUnpaged(ctx context.Context, tenantID uuid.UUID, f crm.SellerFilter) ([]crm.Seller, error) {
	var rows []models.SellerModel
	query := sellerTable.applyIndexOrder(r.filtered(ctx, tenantID, f).Select(sellerTable.col("*")), f.Sort)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

func (r *GormSellerRepository) hydrate(ctx context.Context, rows []models.SellerModel) ([]crm.Seller, error) {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	details, err := loadDetails(ctx, r.db, models.OwnerSeller, ids)
	if err != nil {
		return nil, err
	}
	out := make([]crm.Seller, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(*details[rows[i].ID])
	}
	return out, nil
}

// NextSequence returns the next number for a generated seller code
func (r *GormSellerRepository) NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return nextCodeSequence(ctx, r.db, sellerTable.table, sellerTable.codeColumn, crm.SellerCodePrefix, tenantID)
}

// Save writes the seller and replaces its detail rows in one transaction
func (r *GormSellerRepository) Save(ctx context.Context, s *crm.Seller) error {
	model, rows := models.SellerModelFromDomain(s)
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return replaceDetails(tx, s.TenantID, models.OwnerSeller, s.ID, rows)
	}))
}

// Delete removes the seller, its details and its folder links in one transaction
func (r *GormSellerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteCRMRecord(ctx, r.db, &models.SellerModel{}, models.OwnerSeller, tenantID, id)
}

// GormPartnerRepository implements crm.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID loads a partner with all its details
func (r *GormPartnerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	details, err := loadDetails(ctx, r.db, models.OwnerPartner, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(*details[id]), nil
}

func (r *GormPartnerRepository) filtered(ctx context.Context, tenantID uuid.UUID, f crm.PartnerFilter) *gorm.DB {
	t := partnerTable
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Scopes(tenant.TableScope(t.table, tenantID))
	query = t.joinOverview(query).
		Joins("LEFT JOIN partnership_details ON partnership_details.partner_id = " + t.col("id"))
	query = t.applyIndexFilter(query, f.IndexFilter)
	if f.PartnershipType != "" {
		query = query.Where("partnership_details.partnership_type = ?", f.PartnershipType)
	}
	query = applyDecimalRange(query, "partnership_details.commission_rate", f.CommissionMin, f.CommissionMax)
	return query
}

// FindAll returns one page of matching partners and the total match count
func (r *GormPartnerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, f crm.PartnerFilter) ([]crm.Partner, int64, error) {
	query := r.filtered(ctx, tenantID, f)
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.PartnerModel
	query = partnerTable.applyIndexOrder(query.Select(partnerTable.col("*")), f.Sort)
	if err := partnerTable.page(query, f.Page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	partners, err := r.hydrate(ctx, rows)
	return partners, total, err
}

// FindAllUnpaged returns every matching partner in index order
func (r *GormPartnerRepository) FindAllUnpaged(ctx context.Context, tenantID uuid.UUID, f crm.PartnerFilter) ([]crm.Partner, error) {
	var rows []models.PartnerModel
	query := partnerTable.applyIndexOrder(r.filtered(ctx, tenantID, f).Select(partnerTable.col("*")), f.Sort)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

func (r *GormPartnerRepository) hydrate(ctx context.Context, rows []models.PartnerModel) ([]crm.Partner, error) {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	details, err := loadDetails(ctx, r.db, models.OwnerPartner, ids)
	if err != nil {
		return nil, err
	}
	out := make([]crm.Partner, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(*details[rows[i].ID])
	}
	return out, nil
}

// NextSequence returns the next number for a generated partner code
func (r *GormPartnerRepository) NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return nextCodeSequence(ctx, r.db, partnerTable.table, partnerTable.codeColumn, crm.PartnerCodePrefix, tenantID)
}

// Save writes the partner and replaces its detail rows in one transaction
func (r *GormPartnerRepository) Save(ctx context.Context, p *crm.Partner) error {
	model, rows := models.PartnerModelFromDomain(p)
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return replaceDetails(tx, p.TenantID, models.OwnerPartner, p.ID, rows)
	}))
}

// Delete removes the partner, its details and its folder links in one transaction
func (r *GormPartnerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteCRMRecord(ctx, r.db, &models.PartnerModel{}, models.OwnerPartner, tenantID, id)
}

var (
	_ crm.BuyerRepository   = (*GormBuyerRepository)(nil)
	_ crm.SellerRepository  = (*GormSellerRepository)(nil)
	_ crm.PartnerRepository = (*GormPartnerRepository)(nil)
)
