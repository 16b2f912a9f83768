package filefolder

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// OwnerType names the kind of record a folder is linked to
type OwnerType string

const (
	OwnerBuyer    OwnerType = "buyer"
	OwnerSeller   OwnerType = "seller"
	OwnerPartner  OwnerType = "partner"
	OwnerDeal     OwnerType = "deal"
	OwnerEmployee OwnerType = "employee"
)

// IsValid reports whether the owner type is known
func (t OwnerType) IsValid() bool {
	switch t {
	case OwnerBuyer, OwnerSeller, OwnerPartner, OwnerDeal, OwnerEmployee:
		return true
	}
	return false
}

// DefaultFolderName is the folder created on first upload for an owner
func DefaultFolderName(owner OwnerType) string {
	switch owner {
	case OwnerDeal:
		return "Deal Room"
	case OwnerEmployee:
		return "Employee Documents"
	default:
		return "Documents"
	}
}

// Folder groups files
type Folder struct {
	shared.TenantAggregateRoot
	Name     string
	ParentID *uuid.UUID
}

// NewFolder creates a folder
func NewFolder(tenantID uuid.UUID, name string, parentID *uuid.UUID) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "This field is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("name", "Must be at most 200 characters")
	}
	return &Folder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		ParentID:            parentID,
	}, nil
}

// File is the metadata of one stored object
type File struct {
	shared.TenantAggregateRoot
	FolderID     uuid.UUID
	OriginalName string
	StorageKey   string
	MimeType     string
	Size         int64
	UploadedBy   *uuid.UUID
}

// NewFile records an object already written to storage
func NewFile(tenantID, folderID uuid.UUID, originalName, storageKey, mimeType string, size int64, uploadedBy uuid.UUID) *File {
	f := &File{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FolderID:            folderID,
		OriginalName:        SanitizeFileName(originalName),
		StorageKey:          storageKey,
		MimeType:            mimeType,
		Size:                size,
	}
	if uploadedBy != uuid.Nil {
		f.UploadedBy = &uploadedBy
		f.CreatedBy = &uploadedBy
	}
	return f
}

// Link attaches a folder to an owning record
type Link struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	FolderID  uuid.UUID
	OwnerType OwnerType
	OwnerID   uuid.UUID
	CreatedAt time.Time
}

// NewLink creates a folder link
func NewLink(tenantID, folderID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID) (*Link, error) {
	if !ownerType.IsValid() {
		return nil, shared.NewValidationError("owner_type", "Must be one of: buyer, seller, partner, deal, employee")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("owner_id", "This field is required")
	}
	return &Link{
		ID:        uuid.New(),
		TenantID:  tenantID,
		FolderID:  folderID,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}, nil
}

// StorageKey builds tenants/{tenant}/{owner_type}/{owner_id}/{uuid}{ext}
func StorageKey(tenantID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID, originalName string) string {
	ext := strings.ToLower(path.Ext(SanitizeFileName(originalName)))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("tenants/%s/%s/%s/%s%s", tenantID, ownerType, ownerID, uuid.New(), ext)
}

// SanitizeFileName strips directories and control characters from an uploaded name
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

// Profile picture constraints
const MaxProfilePictureSize int64 = 5 << 20

var profilePictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateProfilePicture checks content type and size of a profile picture
func ValidateProfilePicture(mimeType string, size int64) error {
	if !profilePictureTypes[strings.ToLower(mimeType)] {
		return shared.NewValidationError("file", "Must be a JPEG, PNG or WebP image")
	}
	return ValidateSize(size, MaxProfilePictureSize)
}

// ValidateSize rejects empty uploads and uploads larger than max
func ValidateSize(size, max int64) error {
	if size <= 0 {
		return shared.NewValidationError("file", "File is empty")
	}
	if max > 0 && size > max {
		return shared.NewValidationError("file", fmt.Sprintf("Must be at most %d MB", max>>20))
	}
	return nil
}
