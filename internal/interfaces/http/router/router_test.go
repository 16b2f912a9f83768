package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/infrastructure/auth"
	"github.com/ventureflow/backend/internal/infrastructure/config"
	"github.com/ventureflow/backend/internal/interfaces/http/handler"
	"github.com/ventureflow/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { order = append(order, name); c.Next() }
	}

	group := NewDomainGroup("ping", "/ping").Use(mark("group"))
	group.GET("", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	NewRouter(engine, WithMiddleware(mark("api"))).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"api", "group"}, order)

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/ping", "").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("deals", "/deals")
		assert.Equal(t, "deals", g.Name())
		assert.Equal(t, "/deals", g.Prefix())
	})

	t.Run("every verb", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("items", "/items").
			GET("", ok).
			POST("", ok).
			PUT("/:id", ok).
			PATCH("/:id", ok).
			DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group(""))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/items"},
			{http.MethodPost, "/items"},
			{http.MethodPut, "/items/1"},
			{http.MethodPatch, "/items/1"},
			{http.MethodDelete, "/items/1"},
		} {
			w := serve(engine, tc.method, tc.path, "")
			assert.Equal(t, http.StatusOK, w.Code, tc.method)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		parent := NewDomainGroup("parent", "/parent").Use(func(c *gin.Context) {
			c.Header("X-Parent", "yes")
			c.Next()
		})
		parent.Group("child", "/child").GET("/leaf", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		parent.RegisterRoutes(engine.Group(""))

		w := serve(engine, http.MethodGet, "/parent/child/leaf", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-Parent"))
	})
}

type apiFixture struct {
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-at-least-32-chars",
		RefreshSecret:          "router-test-refresh-secret-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "router-test",
		MaxRefreshCount:        3,
	})

	employees := handler.NewEmployeeHandler(nil)
	h := Handlers{
		System:        handler.NewSystemHandler("test", nil),
		Auth:          handler.NewAuthHandler(nil),
		Users:         handler.NewUserHandler(nil),
		Masterdata:    handler.NewMasterdataHandler(nil, nil, nil),
		Companies:     employees,
		Branches:      employees,
		Departments:   employees,
		Teams:         employees,
		Designations:  employees,
		Employees:     employees,
		Buyers:        handler.NewBuyerHandler(nil),
		Sellers:       handler.NewSellerHandler(nil),
		Partners:      handler.NewPartnerHandler(nil),
		Deals:         handler.NewDealHandler(nil),
		Files:         handler.NewFileFolderHandler(nil),
		Notifications: handler.NewNotificationHandler(nil),
	}
	sec := Security{
		JWT:         middleware.JWTMiddlewareConfig{JWTService: jwtService},
		AuthLimiter: middleware.NewRateLimiter(1, time.Minute),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	NewRouter(engine).Register(API(h, sec)...).Setup()
	return &apiFixture{engine: engine, jwt: jwtService}
}

func (f *apiFixture) token(t *testing.T, role identity.Role) string {
	t.Helper()
	pair, err := f.jwt.GenerateTokenPair(auth.Subject{
		TenantID: uuid.New(), UserID: uuid.New(), Email: "router@ventureflow.io", Role: role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestAPI_Routes(t *testing.T) {
	f := newAPIFixture(t)

	registered := map[string]bool{}
	for _, r := range f.engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /api/v1/health",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"PUT /api/v1/auth/password",
		"GET /api/v1/users",
		"DELETE /api/v1/users/:id",
		"GET /api/v1/currencies",
		"PUT /api/v1/countries/:id",
		"POST /api/v1/industries",
		"GET /api/v1/companies",
		"POST /api/v1/branches",
		"PUT /api/v1/departments/:id",
		"DELETE /api/v1/teams/:id",
		"GET /api/v1/designations/:id",
		"POST /api/v1/employees/:id/profile-picture",
		"GET /api/v1/buyers/export",
		"POST /api/v1/buyers/import",
		"POST /api/v1/sellers/import",
		"PATCH /api/v1/partners/:id/pin",
		"POST /api/v1/partners/:id/profile-picture",
		"GET /api/v1/deals/stages",
		"GET /api/v1/deals/pipeline",
		"PATCH /api/v1/deals/:id/stage",
		"GET /api/v1/deals/:id/stage-history",
		"POST /api/v1/deals/:id/documents",
		"GET /api/v1/folders",
		"POST /api/v1/folders/:id/files",
		"GET /api/v1/files/:id/download",
		"GET /api/v1/notifications/unread-count",
		"PATCH /api/v1/notifications/read-all",
		"PATCH /api/v1/notifications/:id/read",
	} {
		assert.True(t, registered[route], route)
	}
	assert.False(t, registered["POST /api/v1/partners/import"])
}

func TestAPI_Health(t *testing.T) {
	f := newAPIFixture(t)

	w := serve(f.engine, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAPI_Authorization(t *testing.T) {
	f := newAPIFixture(t)
	staff := f.token(t, identity.RoleStaff)
	partner := f.token(t, identity.RolePartner)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/deals", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/buyers", "not-a-jwt", http.StatusUnauthorized},
		{"no token on me", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"staff cannot manage users", http.MethodGet, "/api/v1/users", staff, http.StatusForbidden},
		{"staff cannot delete deals", http.MethodDelete, "/api/v1/deals/" + uuid.NewString(), staff, http.StatusForbidden},
		{"staff cannot edit masterdata", http.MethodPost, "/api/v1/currencies", staff, http.StatusForbidden},
		{"partner cannot create deals", http.MethodPost, "/api/v1/deals", partner, http.StatusForbidden},
		{"partner cannot import", http.MethodPost, "/api/v1/buyers/import", partner, http.StatusForbidden},
		{"partner cannot read organization", http.MethodGet, "/api/v1/employees", partner, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(f.engine, tc.method, tc.path, tc.token)
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestAPI_AuthRateLimit(t *testing.T) {
	f := newAPIFixture(t)

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, login().Code)
	w := login()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
