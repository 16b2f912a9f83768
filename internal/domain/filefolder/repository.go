package filefolder

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// Repository persists folders, files and links
type Repository interface {
	FindFolder(ctx context.Context, tenantID, id uuid.UUID) (*Folder, error)
	FindFoldersByOwner(ctx context.Context, tenantID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID) ([]Folder, error)
	// FindOwnerFolderByName returns the owner's linked folder with this name
	FindOwnerFolderByName(ctx context.Context, tenantID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID, name string) (*Folder, error)
	// SaveFolder writes the folder and, when link is non-nil, the link in one transaction
	SaveFolder(ctx context.Context, folder *Folder, link *Link) error
	// DeleteFolder removes the folder, its files and links in one transaction and
	// returns the storage keys of the removed files
	DeleteFolder(ctx context.Context, tenantID, id uuid.UUID) ([]string, error)

	FindFile(ctx context.Context, tenantID, id uuid.UUID) (*File, error)
	FindFiles(ctx context.Context, tenantID, folderID uuid.UUID, filter shared.Filter) ([]File, int64, error)
	SaveFile(ctx context.Context, file *File) error
	DeleteFile(ctx context.Context, tenantID, id uuid.UUID) error
}
