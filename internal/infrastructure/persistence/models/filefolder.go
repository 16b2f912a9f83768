package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/filefolder"
)

// Owner types as stored in owner_type columns
const (
	OwnerBuyer    = string(filefolder.OwnerBuyer)
	OwnerSeller   = string(filefolder.OwnerSeller)
	OwnerPartner  = string(filefolder.OwnerPartner)
	OwnerDeal     = string(filefolder.OwnerDeal)
	OwnerEmployee = string(filefolder.OwnerEmployee)
)

// FolderModel is the persistence model for folders
type FolderModel struct {
	TenantAggregateModel
	Name     string     `gorm:"type:varchar(200);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (FolderModel) TableName() string {
	return "folders"
}

// ToDomain converts the model to a domain Folder
func (m *FolderModel) ToDomain() *filefolder.Folder {
	return &filefolder.Folder{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		ParentID:            m.ParentID,
	}
}

// FolderModelFromDomain creates a model from a domain Folder
func FolderModelFromDomain(f *filefolder.Folder) *FolderModel {
	m := &FolderModel{Name: f.Name, ParentID: f.ParentID}
	m.FromDomainTenantAggregateRoot(f.TenantAggregateRoot)
	return m
}

// FileModel is the persistence model for stored file metadata
type FileModel struct {
	TenantAggregateModel
	FolderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	OriginalName string     `gorm:"type:varchar(255);not null"`
	StorageKey   string     `gorm:"type:varchar(500);not null;index"`
	MimeType     string     `gorm:"type:varchar(150)"`
	Size         int64      `gorm:"not null"`
	UploadedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FileModel) TableName() string {
	return "files"
}

// ToDomain converts the model to a domain File
func (m *FileModel) ToDomain() *filefolder.File {
	return &filefolder.File{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		FolderID:            m.FolderID,
		OriginalName:        m.OriginalName,
		StorageKey:          m.StorageKey,
		MimeType:            m.MimeType,
		Size:                m.Size,
		UploadedBy:          m.UploadedBy,
	}
}

// FileModelFromDomain creates a model from a domain File
func FileModelFromDomain(f *filefolder.File) *FileModel {
	m := &FileModel{
		FolderID:     f.FolderID,
		OriginalName: f.OriginalName,
		StorageKey:   f.StorageKey,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadedBy:   f.UploadedBy,
	}
	m.FromDomainTenantAggregateRoot(f.TenantAggregateRoot)
	return m
}

// FileFolderLinkModel attaches a folder to a buyer, seller, partner, deal or employee
type FileFolderLinkModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	FolderID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	OwnerType filefolder.OwnerType `gorm:"type:varchar(20);not null;index:idx_file_folder_links_owner"`
	OwnerID   uuid.UUID            `gorm:"type:uuid;not null;index:idx_file_folder_links_owner"`
	CreatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FileFolderLinkModel) TableName() string {
	return "file_folder_links"
}

// ToDomain converts the model to a domain Link
func (m *FileFolderLinkModel) ToDomain() *filefolder.Link {
	return &filefolder.Link{
		ID:        m.ID,
		TenantID:  m.TenantID,
		FolderID:  m.FolderID,
		OwnerType: m.OwnerType,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
	}
}

// FileFolderLinkModelFromDomain creates a model from a domain Link
func FileFolderLinkModelFromDomain(l *filefolder.Link) *FileFolderLinkModel {
	return &FileFolderLinkModel{
		ID:        l.ID,
		TenantID:  l.TenantID,
		FolderID:  l.FolderID,
		OwnerType: l.OwnerType,
		OwnerID:   l.OwnerID,
		CreatedAt: l.CreatedAt,
	}
}
