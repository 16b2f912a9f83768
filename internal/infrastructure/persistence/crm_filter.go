package persistence

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// crmTable describes one CRM index: its table, owner type and code column
type crmTable struct {
	table         string
	ownerType     string
	codeColumn    string
	industryScope string
	sortColumns   map[string]string
}

var (
	buyerTable = crmTable{
		table:         "buyers",
		ownerType:     models.OwnerBuyer,
		codeColumn:    "buyer_code",
		industryScope: models.IndustryScopeTarget,
		sortColumns:   BuyerSortColumns,
	}
	sellerTable = crmTable{
		table:         "sellers",
		ownerType:     models.OwnerSeller,
		codeColumn:    "seller_code",
		industryScope: models.IndustryScopeCompany,
		sortColumns:   SellerSortColumns,
	}
	partnerTable = crmTable{
		table:         "partners",
		ownerType:     models.OwnerPartner,
		codeColumn:    "partner_code",
		industryScope: models.IndustryScopeSpecialization,
		sortColumns:   PartnerSortColumns,
	}
)

func (t crmTable) col(name string) string {
	return t.table + "." + name
}

// joinOverview joins the 1:1 company overview row
func (t crmTable) joinOverview(query *gorm.DB) *gorm.DB {
	return query.Joins("LEFT JOIN company_overviews ON company_overviews.owner_id = "+t.col("id")+
		" AND company_overviews.owner_type = ?", t.ownerType)
}

// joinFinancials joins the 1:1 financial details row
func (t crmTable) joinFinancials(query *gorm.DB) *gorm.DB {
	return query.Joins("LEFT JOIN financial_details ON financial_details.owner_id = "+t.col("id")+
		" AND financial_details.owner_type = ?", t.ownerType)
}

// applyIndexFilter adds one clause per set field of f. Clauses are ANDed.
func (t crmTable) applyIndexFilter(query *gorm.DB, f crm.IndexFilter) *gorm.DB {
	query = applySearch(query, f.Search,
		"company_overviews.company_name", t.col(t.codeColumn), "company_overviews.email")
	if f.CountryID != nil {
		query = query.Where("company_overviews.hq_country_id = ?", *f.CountryID)
	}
	if f.RegisteredAfter != nil {
		query = query.Where(t.col("created_at")+" >= ?", *f.RegisteredAfter)
	}
	if f.Status != "" {
		query = query.Where(t.col("status")+" = ?", f.Status)
	}
	if f.Source != "" {
		query = query.Where("LOWER("+t.col("source")+") = LOWER(?)", f.Source)
	}
	if len(f.IndustryIDs) > 0 {
		query = query.Where(t.col("id")+" IN (SELECT owner_id FROM record_industries"+
			" WHERE owner_type = ? AND scope = ? AND industry_id IN ?)",
			t.ownerType, t.industryScope, f.IndustryIDs)
	}
	if f.PICID != nil {
		query = query.Where(t.col("pic_id")+" = ?", *f.PICID)
	}
	if f.IsPinned != nil {
		query = query.Where(t.col("is_pinned")+" = ?", *f.IsPinned)
	}
	return query
}

// applyIndexOrder orders by the whitelisted sort key, or pinned first then newest
func (t crmTable) applyIndexOrder(query *gorm.DB, sort string) *gorm.DB {
	if order, ok := crm.ParseSort(sort, SortKeys(t.sortColumns)); ok {
		dir := "ASC"
		if order.Desc {
			dir = "DESC"
		}
		return query.Order(t.sortColumns[order.Field] + " " + dir).Order(t.col("created_at") + " DESC")
	}
	return query.Order(t.col("is_pinned") + " DESC").Order(t.col("created_at") + " DESC")
}

// page applies the fixed page window
func (t crmTable) page(query *gorm.DB, page int) *gorm.DB {
	f := shared.Filter{Page: page, PageSize: shared.FixedPageSize}
	return query.Offset(f.Offset()).Limit(f.Limit())
}

// applyDecimalRange adds column >= min and column <= max for the bounds that are set
func applyDecimalRange(query *gorm.DB, column string, min, max *decimal.Decimal) *gorm.DB {
	if min != nil {
		query = query.Where(column+" >= ?", *min)
	}
	if max != nil {
		query = query.Where(column+" <= ?", *max)
	}
	return query
}

// applyIDsFilter matches rows whose id appears in a join table
func applyIDsFilter(query *gorm.DB, column, subquery string, ids []uuid.UUID) *gorm.DB {
	if len(ids) == 0 {
		return query
	}
	return query.Where(column+" IN ("+subquery+")", ids)
}
