package filefolder

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultContentType = "application/octet-stream"

// Service stores files and links them to folders and owning records
type Service struct {
	repo    filefolder.Repository
	storage ObjectStorage
	maxSize int64
	logger  *zap.Logger
}

// NewService creates a Service. maxUploadSize bounds folder uploads and
// deal-room documents; profile pictures have their own limit.
func NewService(repo filefolder.Repository, storage ObjectStorage, maxUploadSize int64, logger *zap.Logger) *Service {
	return &Service{repo: repo, storage: storage, maxSize: maxUploadSize, logger: logger}
}

// MaxUploadSize returns the configured document size limit
func (s *Service) MaxUploadSize() int64 {
	return s.maxSize
}

// ListFolders returns the folders linked to an owner
func (s *Service) ListFolders(ctx context.Context, tenantID uuid.UUID, ownerType string, ownerID uuid.UUID) ([]FolderResponse, error) {
	ot := filefolder.OwnerType(ownerType)
	if !ot.IsValid() {
		return nil, shared.NewValidationError("owner_type", "Must be one of: buyer, seller, partner, deal, employee")
	}
	folders, err := s.repo.FindFoldersByOwner(ctx, tenantID, ot, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]FolderResponse, len(folders))
	for i := range folders {
		out[i] = ToFolderResponse(&folders[i])
	}
	return out, nil
}

// CreateFolder creates a folder and its owner link in one transaction
func (s *Service) CreateFolder(ctx context.Context, tenantID, userID uuid.UUID, req CreateFolderRequest) (*FolderResponse, error) {
	if req.ParentID != nil {
		if _, err := s.repo.FindFolder(ctx, tenantID, *req.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("parent_id", "Parent folder not found")
			}
			return nil, err
		}
	}
	folder, err := filefolder.NewFolder(tenantID, req.Name, req.ParentID)
	if err != nil {
		return nil, err
	}
	folder.SetCreatedBy(userID)

	var link *filefolder.Link
	if req.OwnerType != "" || req.OwnerID != nil {
		ownerID := uuid.Nil
		if req.OwnerID != nil {
			ownerID = *req.OwnerID
		}
		link, err = filefolder.NewLink(tenantID, folder.ID, filefolder.OwnerType(req.OwnerType), ownerID)
		if err != nil {
			return nil, err
		}
	}
	if err := s.repo.SaveFolder(ctx, folder, link); err != nil {
		return nil, err
	}
	resp := ToFolderResponse(folder)
	return &resp, nil
}

// DeleteFolder removes a folder with its files and links, then the stored objects
func (s *Service) DeleteFolder(ctx context.Context, tenantID, id uuid.UUID) error {
	keys, err := s.repo.DeleteFolder(ctx, tenantID, id)
	if err != nil {
		return err
	}
	for _, key := range keys {
		s.removeObject(ctx, key)
	}
	s.logger.Info("folder deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("folder_id", id.String()),
		zap.Int("files", len(keys)))
	return nil
}

// ListFiles returns one page of a folder's files
func (s *Service) ListFiles(ctx context.Context, tenantID, folderID uuid.UUID, page int) (shared.Paginated[FileResponse], error) {
	if _, err := s.repo.FindFolder(ctx, tenantID, folderID); err != nil {
		return shared.Paginated[FileResponse]{}, err
	}
	filter := shared.DefaultFilter()
	filter.Page = shared.NormalizePage(page)
	files, total, err := s.repo.FindFiles(ctx, tenantID, folderID, filter)
	if err != nil {
		return shared.Paginated[FileResponse]{}, err
	}
	items := make([]FileResponse, len(files))
	for i := range files {
		items[i] = s.toFileResponse(&files[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// UploadToFolder stores an upload in an existing folder
func (s *Service) UploadToFolder(ctx context.Context, tenantID, userID, folderID uuid.UUID, up Upload) (*FileResponse, error) {
	folder, err := s.repo.FindFolder(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	if err := filefolder.ValidateSize(up.Size, s.maxSize); err != nil {
		return nil, err
	}
	key := folderKey(tenantID, folder.ID, up.FileName)
	return s.storeFile(ctx, tenantID, userID, folder.ID, key, up)
}

// StoreForOwner writes the upload to storage, records the file and links the
// owner's default folder, creating the folder on first use. If the database
// write fails the stored object is removed again.
func (s *Service) StoreForOwner(ctx context.Context, tenantID, userID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID, up Upload) (*FileResponse, error) {
	if err := filefolder.ValidateSize(up.Size, s.maxSize); err != nil {
		return nil, err
	}
	folder, err := s.ownerFolder(ctx, tenantID, userID, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	key := filefolder.StorageKey(tenantID, ownerType, ownerID, up.FileName)
	return s.storeFile(ctx, tenantID, userID, folder.ID, key, up)
}

// ownerFolder returns the owner's default folder, creating and linking it when missing
func (s *Service) ownerFolder(ctx context.Context, tenantID, userID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID) (*filefolder.Folder, error) {
	name := filefolder.DefaultFolderName(ownerType)
	folder, err := s.repo.FindOwnerFolderByName(ctx, tenantID, ownerType, ownerID, name)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	folder, err = filefolder.NewFolder(tenantID, name, nil)
	if err != nil {
		return nil, err
	}
	folder.SetCreatedBy(userID)
	link, err := filefolder.NewLink(tenantID, folder.ID, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveFolder(ctx, folder, link); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *Service) storeFile(ctx context.Context, tenantID, userID, folderID uuid.UUID, key string, up Upload) (*FileResponse, error) {
	contentType := normalizeContentType(up.ContentType)
	if err := s.storage.Put(ctx, key, up.Body, up.Size, contentType); err != nil {
		return nil, err
	}
	file := filefolder.NewFile(tenantID, folderID, up.FileName, key, contentType, up.Size, userID)
	if err := s.repo.SaveFile(ctx, file); err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}
	s.logger.Info("file stored",
		zap.String("tenant_id", tenantID.String()),
		zap.String("file_id", file.ID.String()),
		zap.String("key", key),
		zap.Int64("size", up.Size))
	resp := s.toFileResponse(file)
	return &resp, nil
}

// Download opens a stored file
func (s *Service) Download(ctx context.Context, tenantID, id uuid.UUID) (*Download, error) {
	file, err := s.repo.FindFile(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	body, err := s.storage.Open(ctx, file.StorageKey)
	if err != nil {
		return nil, err
	}
	return &Download{
		FileName:    file.OriginalName,
		ContentType: file.MimeType,
		Size:        file.Size,
		Body:        body,
	}, nil
}

// GetFile returns file metadata
func (s *Service) GetFile(ctx context.Context, tenantID, id uuid.UUID) (*FileResponse, error) {
	file, err := s.repo.FindFile(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toFileResponse(file)
	return &resp, nil
}

// DeleteFile removes the row first, then the stored object
func (s *Service) DeleteFile(ctx context.Context, tenantID, id uuid.UUID) error {
	file, err := s.repo.FindFile(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFile(ctx, tenantID, id); err != nil {
		return err
	}
	s.removeObject(ctx, file.StorageKey)
	return nil
}

// PutProfilePicture validates and stores a profile picture and returns its key.
// The caller links the key to the record and calls RemoveObject on the old one.
func (s *Service) PutProfilePicture(ctx context.Context, tenantID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID, up Upload) (string, error) {
	contentType := normalizeContentType(up.ContentType)
	if err := filefolder.ValidateProfilePicture(contentType, up.Size); err != nil {
		return "", err
	}
	key := filefolder.StorageKey(tenantID, ownerType, ownerID, up.FileName)
	if err := s.storage.Put(ctx, key, up.Body, up.Size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// RemoveObject deletes a stored object. Failures are logged, not returned.
func (s *Service) RemoveObject(ctx context.Context, key string) {
	s.removeObject(ctx, key)
}

// URL returns the public URL of a key, or "" for an empty key
func (s *Service) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.storage.URL(key)
}

func (s *Service) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete stored object", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) toFileResponse(f *filefolder.File) FileResponse {
	return FileResponse{
		ID:           f.ID,
		FolderID:     f.FolderID,
		OriginalName: f.OriginalName,
		StorageKey:   f.StorageKey,
		URL:          s.storage.URL(f.StorageKey),
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadedBy:   f.UploadedBy,
		CreatedAt:    f.CreatedAt,
	}
}

// folderKey places files uploaded straight into a folder under the folder's prefix
func folderKey(tenantID, folderID uuid.UUID, originalName string) string {
	return filefolder.StorageKey(tenantID, "folder", folderID, originalName)
}

// normalizeContentType drops parameters such as "; charset=utf-8"
func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" {
		return defaultContentType
	}
	return ct
}
