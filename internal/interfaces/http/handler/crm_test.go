package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	crmapp "github.com/ventureflow/backend/internal/application/crm"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/infrastructure/persistence"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/spreadsheet"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
	"github.com/ventureflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// noPictures serves records that never get a profile picture
type noPictures struct{}

func (noPictures) PutProfilePicture(context.Context, uuid.UUID, filefolder.OwnerType, uuid.UUID, filefolderapp.Upload) (string, error) {
	return "", fmt.Errorf("uploads disabled")
}
func (noPictures) RemoveObject(context.Context, string) {}
func (noPictures) URL(string) string                    { return "" }

type buyerAPI struct {
	router   *gin.Engine
	tenantID uuid.UUID
}

func newBuyerAPI(t *testing.T) *buyerAPI {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	svc := crmapp.NewBuyerService(crmapp.Dependencies{
		Buyers:    persistence.NewGormBuyerRepository(db),
		Partners:  persistence.NewGormPartnerRepository(db),
		Employees: persistence.NewGormEmployeeRepository(db),
		Pictures:  noPictures{},
		References: crmapp.NewMasterdataReferences(
			persistence.NewGormCountryRepository(db),
			persistence.NewGormCurrencyRepository(db),
			persistence.NewGormIndustryRepository(db),
		),
		Logger: zap.NewNop(),
	})
	h := NewBuyerHandler(svc)

	api := &buyerAPI{tenantID: uuid.New()}
	api.router = gin.New()
	api.router.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, api.tenantID.String())
		c.Set(middleware.JWTUserIDKey, uuid.NewString())
	})
	g := api.router.Group("/buyers")
	g.GET("", h.Index)
	g.POST("", h.Create)
	g.GET("/export", h.Export)
	g.GET("/:id", h.Show)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/pin", h.TogglePin)
	return api
}

func (a *buyerAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *buyerAPI) create(t *testing.T, name, revenue, status string) map[string]any {
	t.Helper()
	body := fmt.Sprintf(`{
		"status": %q,
		"source": "referral",
		"company_overview": {"company_name": %q, "email": "deals@%s.example"},
		"financial_details": {"annual_revenue": %q, "investment_budget_min": "1000000", "investment_budget_max": "5000000"},
		"target_preferences": {"ownership_preference": "majority"}
	}`, status, name, strings.ToLower(name), revenue)
	w := a.do(http.MethodPost, "/buyers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w).Data.(map[string]any)
}

func TestBuyerHandler_CreateAndShow(t *testing.T) {
	api := newBuyerAPI(t)

	b := api.create(t, "Aldebaran", "12000000", "active")
	assert.Equal(t, "BY-00001", b["buyer_code"])
	assert.Equal(t, "Aldebaran", b["company_overview"].(map[string]any)["company_name"])
	assert.Equal(t, "majority", b["target_preferences"].(map[string]any)["ownership_preference"])

	w := api.do(http.MethodGet, "/buyers/"+b["id"].(string), "")
	require.Equal(t, http.StatusOK, w.Code)
	fin := decode(t, w).Data.(map[string]any)["financial_details"].(map[string]any)
	assert.Equal(t, "12000000", fin["annual_revenue"])

	assert.Equal(t, "BY-00002", api.create(t, "Bellatrix", "3000000", "draft")["buyer_code"])
}

func TestBuyerHandler_Create_Validation(t *testing.T) {
	api := newBuyerAPI(t)

	w := api.do(http.MethodPost, "/buyers", `{"company_overview": {"company_name": ""}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)

	w = api.do(http.MethodPost, "/buyers", `{
		"company_overview": {"company_name": "Capella"},
		"financial_details": {"investment_budget_min": "9", "investment_budget_max": "1"}
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotEmpty(t, decode(t, w).Error.Details)

	w = api.do(http.MethodPost, "/buyers", `{"company_overview": {"company_name": "Deneb"}, "pic_id": "`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "pic_id", decode(t, w).Error.Details[0].Field)
}

func TestBuyerHandler_IndexFilters(t *testing.T) {
	api := newBuyerAPI(t)
	api.create(t, "Aldebaran", "12000000", "active")
	api.create(t, "Bellatrix", "3000000", "draft")
	api.create(t, "Canopus", "25000000", "active")

	count := func(query string) int {
		w := api.do(http.MethodGet, "/buyers"+query, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return len(decode(t, w).Data.([]any))
	}

	assert.Equal(t, 3, count(""))
	assert.Equal(t, 2, count("?revenue_min=10000000"))
	assert.Equal(t, 1, count("?revenue_min=10000000&revenue_max=20000000"))
	assert.Equal(t, 1, count("?status=draft"))
	assert.Equal(t, 1, count("?search=canop"))
	assert.Equal(t, 0, count("?search=canop&status=draft"))
	assert.Equal(t, 0, count("?page=2"))

	w := api.do(http.MethodGet, "/buyers?page=2", "")
	assert.Equal(t, int64(3), decode(t, w).Meta.Total)
}

func TestBuyerHandler_IndexRejectsMalformedParams(t *testing.T) {
	api := newBuyerAPI(t)

	w := api.do(http.MethodGet, "/buyers?revenue_min=lots&registered_after=yesterday&industry_ids[]=x", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := map[string]bool{}
	for _, d := range decode(t, w).Error.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["revenue_min"])
	assert.True(t, fields["registered_after"])
	assert.True(t, fields["industry_ids"])
}

func TestBuyerHandler_PinExportDelete(t *testing.T) {
	api := newBuyerAPI(t)
	id := api.create(t, "Aldebaran", "12000000", "active")["id"].(string)
	api.create(t, "Bellatrix", "3000000", "active")

	w := api.do(http.MethodPatch, "/buyers/"+id+"/pin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w).Data.(map[string]any)["is_pinned"])

	w = api.do(http.MethodGet, "/buyers", "")
	first := decode(t, w).Data.([]any)[0].(map[string]any)
	assert.Equal(t, id, first["id"], "pinned records sort first")

	w = api.do(http.MethodGet, "/buyers/export?status=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "buyers-")
	assert.NotEmpty(t, w.Body.Bytes())

	w = api.do(http.MethodDelete, "/buyers/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodGet, "/buyers/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
