package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	crmapp "github.com/ventureflow/backend/internal/application/crm"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/spreadsheet"
)

// recordService is what the buyer, seller and partner services have in common
type recordService[F, Req, Resp any] interface {
	Index(ctx context.Context, tenantID uuid.UUID, filter F) (shared.Paginated[Resp], error)
	Show(ctx context.Context, tenantID, id uuid.UUID) (*Resp, error)
	Create(ctx context.Context, tenantID, userID uuid.UUID, req Req) (*Resp, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req Req) (*Resp, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	TogglePin(ctx context.Context, tenantID, id uuid.UUID) (*crmapp.PinResponse, error)
	UploadProfilePicture(ctx context.Context, tenantID, id uuid.UUID, up filefolderapp.Upload) (*Resp, error)
	Export(ctx context.Context, tenantID uuid.UUID, filter F, w io.Writer) error
}

// importer is implemented by the record services that accept spreadsheet imports
type importer interface {
	Import(ctx context.Context, tenantID, userID uuid.UUID, r io.Reader) (*spreadsheet.ImportResult, error)
}

// RecordHandler serves one CRM record type
type RecordHandler[F, Req, Resp any] struct {
	BaseHandler
	svc    recordService[F, Req, Resp]
	parse  func(url.Values) (F, error)
	name   string
	sheets importer
}

// NewBuyerHandler serves /buyers
func NewBuyerHandler(svc *crmapp.BuyerService) *RecordHandler[crm.BuyerFilter, crmapp.BuyerRequest, crmapp.BuyerResponse] {
	return &RecordHandler[crm.BuyerFilter, crmapp.BuyerRequest, crmapp.BuyerResponse]{
		svc: svc, parse: crmapp.ParseBuyerQuery, name: "buyers", sheets: svc,
	}
}

// NewSellerHandler serves /sellers
func NewSellerHandler(svc *crmapp.SellerService) *RecordHandler[crm.SellerFilter, crmapp.SellerRequest, crmapp.SellerResponse] {
	return &RecordHandler[crm.SellerFilter, crmapp.SellerRequest, crmapp.SellerResponse]{
		svc: svc, parse: crmapp.ParseSellerQuery, name: "sellers", sheets: svc,
	}
}

// NewPartnerHandler serves /partners
func NewPartnerHandler(svc *crmapp.PartnerService) *RecordHandler[crm.PartnerFilter, crmapp.PartnerRequest, crmapp.PartnerResponse] {
	return &RecordHandler[crm.PartnerFilter, crmapp.PartnerRequest, crmapp.PartnerResponse]{
		svc: svc, parse: crmapp.ParsePartnerQuery, name: "partners",
	}
}

// CanImport reports whether the record type has an import endpoint
func (h *RecordHandler[F, Req, Resp]) CanImport() bool {
	return h.sheets != nil
}

// Index handles GET /. Filters come from the raw query string so list
// parameters may repeat (?industry_ids=a&industry_ids=b).
func (h *RecordHandler[F, Req, Resp]) Index(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	filter, err := h.parse(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.svc.Index(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Show handles GET /:id
func (h *RecordHandler[F, Req, Resp]) Show(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Show(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /
func (h *RecordHandler[F, Req, Resp]) Create(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /:id
func (h *RecordHandler[F, Req, Resp]) Update(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /:id
func (h *RecordHandler[F, Req, Resp]) Delete(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// TogglePin handles PATCH /:id/pin
func (h *RecordHandler[F, Req, Resp]) TogglePin(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.TogglePin(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadProfilePicture handles POST /:id/profile-picture
func (h *RecordHandler[F, Req, Resp]) UploadProfilePicture(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
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

	resp, err := h.svc.UploadProfilePicture(c.Request.Context(), tenantID, id, up)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Export handles GET /export. It takes the index filters and returns every
// matching record as an xlsx attachment.
func (h *RecordHandler[F, Req, Resp]) Export(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	filter, err := h.parse(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Export(c.Request.Context(), tenantID, filter, &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", h.name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}

// Import handles POST /import with the workbook in the "file" form field
func (h *RecordHandler[F, Req, Resp]) Import(c *gin.Context) {
	if h.sheets == nil {
		h.NotFound(c, "Import is not supported for "+h.name)
		return
	}
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	up, closer, ok := h.formFile(c, "file")
	if !ok {
		return
	}
	defer closer.Close()

	result, err := h.sheets.Import(c.Request.Context(), tenantID, userID, up.Body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
