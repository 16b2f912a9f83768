package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appdeal "github.com/ventureflow/backend/internal/application/deal"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
	"github.com/ventureflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// memoryDeals keeps deals in a map. Filters are ignored.
type memoryDeals struct {
	mu      sync.Mutex
	seq     int64
	deals   map[uuid.UUID]*deal.Deal
	history []deal.StageHistory
}

func newMemoryDeals() *memoryDeals {
	return &memoryDeals{deals: map[uuid.UUID]*deal.Deal{}}
}

func (m *memoryDeals) FindByID(_ context.Context, tenantID, id uuid.UUID) (*deal.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deals[id]
	if !ok || d.TenantID != tenantID {
		return nil, shared.NewNotFoundError("Deal")
	}
	return d, nil
}

func (m *memoryDeals) FindAll(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]deal.Deal, int64, error) {
	rows, _ := m.FindByStages(context.Background(), tenantID, shared.Filter{})
	return rows, int64(len(rows)), nil
}

func (m *memoryDeals) FindByStages(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]deal.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []deal.Deal
	for _, d := range m.deals {
		if d.TenantID == tenantID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memoryDeals) CountByStage(ctx context.Context, tenantID uuid.UUID, f shared.Filter) ([]deal.PipelineColumn, error) {
	rows, _ := m.FindByStages(ctx, tenantID, f)
	counts := map[deal.StageCode]int64{}
	for _, d := range rows {
		counts[d.StageCode]++
	}
	var out []deal.PipelineColumn
	for code, n := range counts {
		out = append(out, deal.PipelineColumn{StageCode: code, Count: n})
	}
	return out, nil
}

func (m *memoryDeals) NextSequence(context.Context, uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq, nil
}

func (m *memoryDeals) Save(_ context.Context, d *deal.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deals[d.ID] = d
	return nil
}

func (m *memoryDeals) SaveWithHistory(ctx context.Context, d *deal.Deal, entry *deal.StageHistory) error {
	_ = m.Save(ctx, d)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append([]deal.StageHistory{*entry}, m.history...)
	return nil
}

func (m *memoryDeals) History(_ context.Context, _, dealID uuid.UUID) ([]deal.StageHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []deal.StageHistory
	for _, h := range m.history {
		if h.DealID == dealID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memoryDeals) Delete(_ context.Context, _, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.deals, id)
	return nil
}

type countingPublisher struct{ events []shared.DomainEvent }

func (p *countingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type dealFixture struct {
	router   *gin.Engine
	repo     *memoryDeals
	events   *countingPublisher
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newDealFixture(t *testing.T) *dealFixture {
	t.Helper()
	f := &dealFixture{
		repo:     newMemoryDeals(),
		events:   &countingPublisher{},
		tenantID: uuid.New(),
		userID:   uuid.New(),
	}
	h := NewDealHandler(appdeal.NewService(appdeal.Dependencies{
		Deals:  f.repo,
		Events: f.events,
		Logger: zap.NewNop(),
	}))

	f.router = gin.New()
	f.router.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, f.tenantID.String())
		c.Set(middleware.JWTUserIDKey, f.userID.String())
	})
	g := f.router.Group("/deals")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/stages", h.Stages)
	g.GET("/pipeline", h.Pipeline)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/stage", h.ChangeStage)
	g.GET("/:id/stage-history", h.History)
	g.DELETE("/:id", h.Delete)
	return f
}

func (f *dealFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *dealFixture) create(t *testing.T, body string) map[string]any {
	t.Helper()
	w := f.do(http.MethodPost, "/deals", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w).Data.(map[string]any)
}

func TestDealHandler_Create(t *testing.T) {
	f := newDealFixture(t)

	d := f.create(t, `{"name":"Project Atlas"}`)
	assert.Equal(t, "DL-00001", d["deal_code"])
	assert.Equal(t, "K", d["stage_code"])
	assert.Equal(t, "Lead Identified", d["stage_name"])
	assert.Equal(t, float64(5), d["progress_percent"])

	d = f.create(t, `{"name":"Project Borealis","stage_code":"c","estimated_value":"1250000.50","expected_close_date":"2027-03-31"}`)
	assert.Equal(t, "DL-00002", d["deal_code"])
	assert.Equal(t, "C", d["stage_code"])
	assert.Equal(t, float64(90), d["progress_percent"])
	assert.Equal(t, "1250000.5", d["estimated_value"])
	assert.Equal(t, "2027-03-31", d["expected_close_date"])
	assert.Empty(t, f.events.events)
}

func TestDealHandler_Create_Validation(t *testing.T) {
	f := newDealFixture(t)

	w := f.do(http.MethodPost, "/deals", `{"priority":"urgent"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := map[string]bool{}
	for _, d := range decode(t, w).Error.Details {
		fields[d.Field] = true
	}
	assert.Equal(t, map[string]bool{"name": true, "priority": true}, fields)

	w = f.do(http.MethodPost, "/deals", `{"name":"Atlas","stage_code":"Z"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "stage_code", decode(t, w).Error.Details[0].Field)
}

func TestDealHandler_ChangeStage(t *testing.T) {
	f := newDealFixture(t)
	id := f.create(t, `{"name":"Project Atlas"}`)["id"].(string)

	w := f.do(http.MethodPatch, "/deals/"+id+"/stage", `{"stage_code":"E"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, true, data["changed"])
	assert.Equal(t, "E", data["deal"].(map[string]any)["stage_code"])
	assert.Equal(t, float64(60), data["deal"].(map[string]any)["progress_percent"])
	history := data["history"].(map[string]any)
	assert.Equal(t, "K", history["from_stage"])
	assert.Equal(t, "E", history["to_stage"])
	assert.Len(t, f.events.events, 1)

	w = f.do(http.MethodPatch, "/deals/"+id+"/stage", `{"stage_code":"e"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w).Data.(map[string]any)
	assert.Equal(t, false, data["changed"])
	assert.Nil(t, data["history"])
	assert.Len(t, f.events.events, 1)

	w = f.do(http.MethodGet, "/deals/"+id+"/stage-history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data.([]any), 1)
}

func TestDealHandler_NotFoundAndBadID(t *testing.T) {
	f := newDealFixture(t)

	w := f.do(http.MethodGet, "/deals/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decode(t, w).Error.Code)

	w = f.do(http.MethodGet, "/deals/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPatch, "/deals/"+uuid.NewString()+"/stage", `{"stage_code":"A"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDealHandler_StagesAndPipeline(t *testing.T) {
	f := newDealFixture(t)
	f.create(t, `{"name":"Atlas"}`)
	f.create(t, `{"name":"Borealis"}`)
	f.create(t, `{"name":"Cygnus","stage_code":"A"}`)

	w := f.do(http.MethodGet, "/deals/stages", "")
	require.Equal(t, http.StatusOK, w.Code)
	stages := decode(t, w).Data.([]any)
	require.Len(t, stages, 11)
	assert.Equal(t, "K", stages[0].(map[string]any)["code"])
	assert.Equal(t, "A", stages[10].(map[string]any)["code"])

	w = f.do(http.MethodGet, "/deals/pipeline", "")
	require.Equal(t, http.StatusOK, w.Code)
	board := decode(t, w).Data.(map[string]any)
	assert.Equal(t, float64(3), board["total"])
	columns := board["stages"].([]any)
	require.Len(t, columns, 11)
	assert.Equal(t, float64(2), columns[0].(map[string]any)["count"])
	assert.Equal(t, float64(1), columns[10].(map[string]any)["count"])
	assert.Empty(t, columns[5].(map[string]any)["deals"])

	w = f.do(http.MethodGet, "/deals?stage=Q", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDealHandler_ListAndDelete(t *testing.T) {
	f := newDealFixture(t)
	id := f.create(t, `{"name":"Atlas"}`)["id"].(string)

	w := f.do(http.MethodGet, "/deals", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Len(t, resp.Data.([]any), 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w = f.do(http.MethodDelete, "/deals/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(http.MethodGet, "/deals/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
