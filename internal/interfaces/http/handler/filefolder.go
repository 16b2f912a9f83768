package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// FileFolderHandler handles folders and stored files
type FileFolderHandler struct {
	BaseHandler
	service *filefolder.Service
}

// NewFileFolderHandler creates a new FileFolderHandler
func NewFileFolderHandler(service *filefolder.Service) *FileFolderHandler {
	return &FileFolderHandler{service: service}
}

// ListFolders handles GET /folders?owner_type=&owner_id=
func (h *FileFolderHandler) ListFolders(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	ownerID, ok := h.queryUUID(c, "owner_id")
	if !ok {
		return
	}
	if ownerID == nil {
		h.HandleError(c, shared.NewValidationError("owner_id", "This field is required"))
		return
	}
	folders, err := h.service.ListFolders(c.Request.Context(), tenantID, c.Query("owner_type"), *ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folders)
}

// CreateFolder handles POST /folders
func (h *FileFolderHandler) CreateFolder(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req filefolder.CreateFolderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	folder, err := h.service.CreateFolder(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, folder)
}

// DeleteFolder handles DELETE /folders/:id
func (h *FileFolderHandler) DeleteFolder(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteFolder(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListFiles handles GET /folders/:id/files
func (h *FileFolderHandler) ListFiles(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.service.ListFiles(c.Request.Context(), tenantID, id, queryPage(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Upload handles POST /folders/:id/files
func (h *FileFolderHandler) Upload(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	up, closer, ok := h.formFile(c, "file")
	if !ok {
		return
	}
	defer closer.Close()

	file, err := h.service.UploadToFolder(c.Request.Context(), tenantID, userID, id, up)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, file)
}

// GetFile handles GET /files/:id
func (h *FileFolderHandler) GetFile(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	file, err := h.service.GetFile(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, file)
}

// Download handles GET /files/:id/download
func (h *FileFolderHandler) Download(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	dl, err := h.service.Download(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer dl.Body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.FileName))
	c.Header("Content-Type", dl.ContentType)
	if dl.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(dl.Size, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, dl.Body); err != nil {
		logger.GetGinLogger(c).Warn("File download interrupted",
			zap.String("file_id", id.String()),
			zap.Error(err))
	}
}

// DeleteFile handles DELETE /files/:id
func (h *FileFolderHandler) DeleteFile(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteFile(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
