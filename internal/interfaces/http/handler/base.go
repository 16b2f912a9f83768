package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/logger"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
	"github.com/ventureflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Page sends one page of a listing with its meta block
func Page[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// HandleError converts service errors to HTTP responses:
//   - *shared.ValidationError and binding errors -> 422 with details
//   - *shared.DomainError -> status derived from its code
//   - anything else -> 500 carrying the error text
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var vErr *shared.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationErrorResponse("Validation failed", requestID, dto.FromValidationError(vErr)))
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		middleware.HandleValidationError(c, err)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, domainErr.Message, requestID))
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, err.Error(), requestID))
}

// bindJSON binds the request body. Malformed JSON is a 400, failed
// validation rules a 422.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			middleware.HandleValidationError(c, err)
		} else {
			h.BadRequest(c, "Invalid request body")
		}
		return false
	}
	return true
}

// bindQuery binds the query string with the same error mapping as bindJSON
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			middleware.HandleValidationError(c, err)
		} else {
			h.BadRequest(c, "Invalid query parameters")
		}
		return false
	}
	return true
}

// pathID parses a UUID path parameter
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// principal returns the tenant and user of the authenticated request
func (h *BaseHandler) principal(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	tenantID, tok := middleware.GetTenantID(c)
	userID, uok := middleware.GetUserID(c)
	if !tok || !uok {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

// queryPage reads ?page=, defaulting to 1
func queryPage(c *gin.Context) int {
	page, _ := strconv.Atoi(c.Query("page"))
	return page
}

// queryUUID reads an optional UUID query parameter
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.HandleError(c, shared.NewValidationError(name, "Must be a valid UUID"))
		return nil, false
	}
	return &id, true
}

// queryBool reads an optional boolean query parameter
func (h *BaseHandler) queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		h.HandleError(c, shared.NewValidationError(name, "Must be true or false"))
		return nil, false
	}
	return &v, true
}

// formFile opens the named multipart file. The caller closes the body.
func (h *BaseHandler) formFile(c *gin.Context, field string) (filefolderapp.Upload, io.Closer, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Upload exceeds maximum allowed size")
			return filefolderapp.Upload{}, nil, false
		}
		h.HandleError(c, shared.NewValidationError(field, "This field is required"))
		return filefolderapp.Upload{}, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return filefolderapp.Upload{}, nil, false
	}
	return filefolderapp.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, true
}
