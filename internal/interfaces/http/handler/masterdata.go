package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/application/masterdata"
)

// MasterdataHandler serves currencies, countries and industries
type MasterdataHandler struct {
	BaseHandler
	currencies *masterdata.CurrencyService
	countries  *masterdata.CountryService
	industries *masterdata.IndustryService
}

// NewMasterdataHandler creates a new MasterdataHandler
func NewMasterdataHandler(currencies *masterdata.CurrencyService, countries *masterdata.CountryService, industries *masterdata.IndustryService) *MasterdataHandler {
	return &MasterdataHandler{currencies: currencies, countries: countries, industries: industries}
}

func (h *MasterdataHandler) listQuery(c *gin.Context) (masterdata.ListQuery, bool) {
	q := masterdata.ListQuery{Search: c.Query("search"), Page: queryPage(c)}
	var ok bool
	if q.IsActive, ok = h.queryBool(c, "is_active"); !ok {
		return q, false
	}
	if q.ParentID, ok = h.queryUUID(c, "parent_id"); !ok {
		return q, false
	}
	root, ok := h.queryBool(c, "root_only")
	if !ok {
		return q, false
	}
	q.RootOnly = root != nil && *root
	return q, true
}

// ListCurrencies handles GET /currencies
func (h *MasterdataHandler) ListCurrencies(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	q, ok := h.listQuery(c)
	if !ok {
		return
	}
	page, err := h.currencies.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetCurrency handles GET /currencies/:id
func (h *MasterdataHandler) GetCurrency(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.currencies.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateCurrency handles POST /currencies
func (h *MasterdataHandler) CreateCurrency(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req masterdata.CreateCurrencyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.currencies.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateCurrency handles PUT /currencies/:id
func (h *MasterdataHandler) UpdateCurrency(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req masterdata.UpdateCurrencyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.currencies.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCurrency handles DELETE /currencies/:id
func (h *MasterdataHandler) DeleteCurrency(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.currencies.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListCountries handles GET /countries
func (h *MasterdataHandler) ListCountries(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	q, ok := h.listQuery(c)
	if !ok {
		return
	}
	page, err := h.countries.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetCountry handles GET /countries/:id
func (h *MasterdataHandler) GetCountry(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.countries.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateCountry handles POST /countries
func (h *MasterdataHandler) CreateCountry(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req masterdata.CreateCountryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.countries.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateCountry handles PUT /countries/:id
func (h *MasterdataHandler) UpdateCountry(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req masterdata.UpdateCountryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.countries.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCountry handles DELETE /countries/:id
func (h *MasterdataHandler) DeleteCountry(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.countries.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListIndustries handles GET /industries. parent_id lists sub-industries,
// root_only=true the broad ones.
func (h *MasterdataHandler) ListIndustries(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	q, ok := h.listQuery(c)
	if !ok {
		return
	}
	page, err := h.industries.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetIndustry handles GET /industries/:id
func (h *MasterdataHandler) GetIndustry(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.industries.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateIndustry handles POST /industries
func (h *MasterdataHandler) CreateIndustry(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req masterdata.IndustryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.industries.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateIndustry handles PUT /industries/:id
func (h *MasterdataHandler) UpdateIndustry(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req masterdata.IndustryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.industries.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteIndustry handles DELETE /industries/:id
func (h *MasterdataHandler) DeleteIndustry(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.industries.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
