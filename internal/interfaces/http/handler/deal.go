package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/application/deal"
)

// DealHandler handles deals and the pipeline board
type DealHandler struct {
	BaseHandler
	dealService *deal.Service
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *deal.Service) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// Stages handles GET /deals/stages
func (h *DealHandler) Stages(c *gin.Context) {
	h.Success(c, h.dealService.Stages())
}

// List handles GET /deals
func (h *DealHandler) List(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	var q deal.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.dealService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Pipeline handles GET /deals/pipeline
func (h *DealHandler) Pipeline(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	var q deal.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	board, err := h.dealService.Pipeline(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, board)
}

// Get handles GET /deals/:id
func (h *DealHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.dealService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /deals
func (h *DealHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req deal.DealRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.dealService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /deals/:id
func (h *DealHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req deal.DealRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.dealService.Update(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeStage handles PATCH /deals/:id/stage
func (h *DealHandler) ChangeStage(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req deal.ChangeStageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.dealService.ChangeStage(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// History handles GET /deals/:id/stage-history
func (h *DealHandler) History(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.dealService.History(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Delete handles DELETE /deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dealService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadDocument handles POST /deals/:id/documents
func (h *DealHandler) UploadDocument(c *gin.Context) {
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

	file, err := h.dealService.UploadDocument(c.Request.Context(), tenantID, userID, id, up)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, file)
}
