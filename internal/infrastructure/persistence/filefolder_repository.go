package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormFileFolderRepository implements filefolder.Repository using GORM
type GormFileFolderRepository struct {
	db *gorm.DB
}

// NewGormFileFolderRepository creates a new GormFileFolderRepository
func NewGormFileFolderRepository(db *gorm.DB) *GormFileFolderRepository {
	return &GormFileFolderRepository{db: db}
}

// FindFolder finds a folder by ID within a tenant
func (r *GormFileFolderRepository) FindFolder(ctx context.Context, tenantID, id uuid.UUID) (*filefolder.Folder, error) {
	var model models.FolderModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormFileFolderRepository) ownerFolders(ctx context.Context, tenantID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.FolderModel{}).
		Scopes(tenant.TableScope("folders", tenantID)).
		Joins("JOIN file_folder_links ON file_folder_links.folder_id = folders.id").
		Where("file_folder_links.owner_type = ? AND file_folder_links.owner_id = ?", ownerType, ownerID).
		Select("folders.*")
}

// FindFoldersByOwner returns the folders linked to an owner, by name
func (r *GormFileFolderRepository) FindFoldersByOwner(ctx context.Context, tenantID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID) ([]filefolder.Folder, error) {
	var rows []models.FolderModel
	if err := r.ownerFolders(ctx, tenantID, ownerType, ownerID).
		Order("folders.name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]filefolder.Folder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindOwnerFolderByName returns the owner's linked folder with this name
func (r *GormFileFolderRepository) FindOwnerFolderByName(ctx context.Context, tenantID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID, name string) (*filefolder.Folder, error) {
	var model models.FolderModel
	if err := r.ownerFolders(ctx, tenantID, ownerType, ownerID).
		Where("folders.name = ?", name).
		Order("folders.created_at ASC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveFolder writes the folder and, when link is non-nil, the link in one transaction
func (r *GormFileFolderRepository) SaveFolder(ctx context.Context, folder *filefolder.Folder, link *filefolder.Link) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.FolderModelFromDomain(folder)).Error; err != nil {
			return err
		}
		if link == nil {
			return nil
		}
		return tx.Create(models.FileFolderLinkModelFromDomain(link)).Error
	})
}

// DeleteFolder removes the folder with its files and links and returns the
// storage keys of the removed files. Objects in storage are the caller's concern.
func (r *GormFileFolderRepository) DeleteFolder(ctx context.Context, tenantID, id uuid.UUID) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FileModel{}).
			Where("tenant_id = ? AND folder_id = ?", tenantID, id).
			Pluck("storage_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ? AND folder_id = ?", tenantID, id).
			Delete(&models.FileModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ? AND folder_id = ?", tenantID, id).
			Delete(&models.FileFolderLinkModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.FolderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// FindFile finds a file by ID within a tenant
func (r *GormFileFolderRepository) FindFile(ctx context.Context, tenantID, id uuid.UUID) (*filefolder.File, error) {
	var model models.FileModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindFiles returns one page of a folder's files
func (r *GormFileFolderRepository) FindFiles(ctx context.Context, tenantID, folderID uuid.UUID, filter shared.Filter) ([]filefolder.File, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FileModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("folder_id = ?", folderID)
	query = applySearch(query, filter.Search, "original_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.FileModel
	query = applyOrder(query, filter, FileSortFields, "created_at DESC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]filefolder.File, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// SaveFile creates or updates file metadata
func (r *GormFileFolderRepository) SaveFile(ctx context.Context, file *filefolder.File) error {
	return r.db.WithContext(ctx).Save(models.FileModelFromDomain(file)).Error
}

// DeleteFile removes file metadata
func (r *GormFileFolderRepository) DeleteFile(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.FileModel{}, tenantID, id)
}

var _ filefolder.Repository = (*GormFileFolderRepository)(nil)
