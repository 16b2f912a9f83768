package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// loadDetails fetches the detail rows of many owners with one query per table
func loadDetails(ctx context.Context, db *gorm.DB, ownerType string, ids []uuid.UUID) (map[uuid.UUID]*models.DetailRows, error) {
	out := make(map[uuid.UUID]*models.DetailRows, len(ids))
	for _, id := range ids {
		out[id] = &models.DetailRows{}
	}
	if len(ids) == 0 {
		return out, nil
	}
	db = db.WithContext(ctx)
	byOwner := "owner_type = ? AND owner_id IN ?"

	var overviews []models.CompanyOverviewModel
	if err := db.Where(byOwner, ownerType, ids).Find(&overviews).Error; err != nil {
		return nil, err
	}
	for i := range overviews {
		out[overviews[i].OwnerID].Overview = &overviews[i]
	}

	var industries []models.RecordIndustryModel
	if err := db.Where(byOwner, ownerType, ids).Order("industry_id").Find(&industries).Error; err != nil {
		return nil, err
	}
	for _, row := range industries {
		out[row.OwnerID].Industries = append(out[row.OwnerID].Industries, row)
	}

	switch ownerType {
	case models.OwnerBuyer, models.OwnerSeller:
		var financials []models.FinancialDetailsModel
		if err := db.Where(byOwner, ownerType, ids).Find(&financials).Error; err != nil {
			return nil, err
		}
		for i := range financials {
			out[financials[i].OwnerID].Financials = &financials[i]
		}
		var teasers []models.TeaserCenterModel
		if err := db.Where(byOwner, ownerType, ids).Find(&teasers).Error; err != nil {
			return nil, err
		}
		for i := range teasers {
			out[teasers[i].OwnerID].Teaser = &teasers[i]
		}
	}

	switch ownerType {
	case models.OwnerBuyer:
		var prefs []models.TargetPreferencesModel
		if err := db.Where("buyer_id IN ?", ids).Find(&prefs).Error; err != nil {
			return nil, err
		}
		for i := range prefs {
			out[prefs[i].BuyerID].Preferences = &prefs[i]
		}
		var countries []models.BuyerTargetCountryModel
		if err := db.Where("buyer_id IN ?", ids).Order("country_id").Find(&countries).Error; err != nil {
			return nil, err
		}
		for _, row := range countries {
			out[row.BuyerID].TargetCountries = append(out[row.BuyerID].TargetCountries, row)
		}
	case models.OwnerPartner:
		var partnerships []models.PartnershipDetailsModel
		if err := db.Where("partner_id IN ?", ids).Find(&partnerships).Error; err != nil {
			return nil, err
		}
		for i := range partnerships {
			out[partnerships[i].PartnerID].Partnership = &partnerships[i]
		}
	}
	return out, nil
}

// deleteDetails removes every detail row of one owner
func deleteDetails(tx *gorm.DB, tenantID uuid.UUID, ownerType string, ownerID uuid.UUID) error {
	byOwner := "tenant_id = ? AND owner_type = ? AND owner_id = ?"
	for _, model := range []any{
		&models.CompanyOverviewModel{},
		&models.FinancialDetailsModel{},
		&models.TeaserCenterModel{},
		&models.RecordIndustryModel{},
	} {
		if err := tx.Where(byOwner, tenantID, ownerType, ownerID).Delete(model).Error; err != nil {
			return err
		}
	}
	switch ownerType {
	case models.OwnerBuyer:
		if err := tx.Where("tenant_id = ? AND buyer_id = ?", tenantID, ownerID).
			Delete(&models.TargetPreferencesModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ? AND buyer_id = ?", tenantID, ownerID).
			Delete(&models.BuyerTargetCountryModel{}).Error; err != nil {
			return err
		}
	case models.OwnerPartner:
		if err := tx.Where("tenant_id = ? AND partner_id = ?", tenantID, ownerID).
			Delete(&models.PartnershipDetailsModel{}).Error; err != nil {
			return err
		}
	}
	return nil
}

// replaceDetails swaps the owner's detail rows for rows
func replaceDetails(tx *gorm.DB, tenantID uuid.UUID, ownerType string, ownerID uuid.UUID, rows models.DetailRows) error {
	if err := deleteDetails(tx, tenantID, ownerType, ownerID); err != nil {
		return err
	}
	singles := []any{}
	if rows.Overview != nil {
		singles = append(singles, rows.Overview)
	}
	if rows.Financials != nil {
		singles = append(singles, rows.Financials)
	}
	if rows.Preferences != nil {
		singles = append(singles, rows.Preferences)
	}
	if rows.Teaser != nil {
		singles = append(singles, rows.Teaser)
	}
	if rows.Partnership != nil {
		singles = append(singles, rows.Partnership)
	}
	for _, row := range singles {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	if len(rows.Industries) > 0 {
		if err := tx.Create(&rows.Industries).Error; err != nil {
			return err
		}
	}
	if len(rows.TargetCountries) > 0 {
		if err := tx.Create(&rows.TargetCountries).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteCRMRecord removes a record, its details and its folder links in one transaction
func deleteCRMRecord(ctx context.Context, db *gorm.DB, model any, ownerType string, tenantID, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDetails(tx, tenantID, ownerType, id); err != nil {
			return err
		}
		if err := deleteFolderLinks(tx, tenantID, ownerType, id); err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
