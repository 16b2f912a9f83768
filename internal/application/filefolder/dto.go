package filefolder

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/filefolder"
)

// Upload is one incoming multipart file
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateFolderRequest creates a folder, optionally linked to an owner
type CreateFolderRequest struct {
	Name      string     `json:"name" binding:"required,max=200"`
	ParentID  *uuid.UUID `json:"parent_id"`
	OwnerType string     `json:"owner_type" binding:"omitempty,oneof=buyer seller partner deal employee"`
	OwnerID   *uuid.UUID `json:"owner_id"`
}

// FolderResponse is a folder in API responses
type FolderResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToFolderResponse maps a folder
func ToFolderResponse(f *filefolder.Folder) FolderResponse {
	return FolderResponse{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		CreatedAt: f.CreatedAt,
	}
}

// FileResponse is a stored file in API responses
type FileResponse struct {
	ID           uuid.UUID  `json:"id"`
	FolderID     uuid.UUID  `json:"folder_id"`
	OriginalName string     `json:"original_name"`
	StorageKey   string     `json:"storage_key"`
	URL          string     `json:"url"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	UploadedBy   *uuid.UUID `json:"uploaded_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Download is an open file stream with its metadata. The caller closes Body.
type Download struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}
