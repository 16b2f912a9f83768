package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/interfaces/http/handler"
	"github.com/ventureflow/backend/internal/interfaces/http/middleware"
)

// CRUD is a resource served by the five standard routes
type CRUD interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// Records is a buyer, seller or partner handler
type Records interface {
	Index(c *gin.Context)
	Show(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	TogglePin(c *gin.Context)
	UploadProfilePicture(c *gin.Context)
	Export(c *gin.Context)
	Import(c *gin.Context)
	CanImport() bool
}

// Handlers are the HTTP handlers mounted by API
type Handlers struct {
	System        *handler.SystemHandler
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Masterdata    *handler.MasterdataHandler
	Companies     CRUD
	Branches      CRUD
	Departments   CRUD
	Teams         CRUD
	Designations  CRUD
	Employees     *handler.EmployeeHandler
	Buyers        Records
	Sellers       Records
	Partners      Records
	Deals         *handler.DealHandler
	Files         *handler.FileFolderHandler
	Notifications *handler.NotificationHandler
}

// Security holds the authentication and authorization settings of the API
type Security struct {
	JWT         middleware.JWTMiddlewareConfig
	Permissions middleware.PermissionConfig
	AuthLimiter *middleware.RateLimiter
}

// API returns the registrars of every VentureFlow route
func API(h Handlers, sec Security) []RouteRegistrar {
	jwt := middleware.JWTAuthMiddleware(sec.JWT)
	resource := func(name string) gin.HandlerFunc {
		return middleware.RequireResource(name, sec.Permissions)
	}

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)

	auth := NewDomainGroup("auth", "/auth")
	public := auth.Group("auth-public", "")
	if sec.AuthLimiter != nil {
		public.Use(middleware.AuthRateLimit(sec.AuthLimiter))
	}
	public.POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh)
	auth.Group("auth-session", "").Use(jwt).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		PUT("/password", h.Auth.ChangePassword)

	protected := NewDomainGroup("protected", "").Use(jwt)

	crud(protected.Group("users", "/users").Use(resource(identity.ResourceUser)), h.Users)

	masterdata := protected.Group("masterdata", "").Use(resource(identity.ResourceMasterdata))
	masterdata.Group("currencies", "/currencies").
		GET("", h.Masterdata.ListCurrencies).
		POST("", h.Masterdata.CreateCurrency).
		GET("/:id", h.Masterdata.GetCurrency).
		PUT("/:id", h.Masterdata.UpdateCurrency).
		DELETE("/:id", h.Masterdata.DeleteCurrency)
	masterdata.Group("countries", "/countries").
		GET("", h.Masterdata.ListCountries).
		POST("", h.Masterdata.CreateCountry).
		GET("/:id", h.Masterdata.GetCountry).
		PUT("/:id", h.Masterdata.UpdateCountry).
		DELETE("/:id", h.Masterdata.DeleteCountry)
	masterdata.Group("industries", "/industries").
		GET("", h.Masterdata.ListIndustries).
		POST("", h.Masterdata.CreateIndustry).
		GET("/:id", h.Masterdata.GetIndustry).
		PUT("/:id", h.Masterdata.UpdateIndustry).
		DELETE("/:id", h.Masterdata.DeleteIndustry)

	org := protected.Group("organization", "").Use(resource(identity.ResourceOrganization))
	crud(org.Group("companies", "/companies"), h.Companies)
	crud(org.Group("branches", "/branches"), h.Branches)
	crud(org.Group("departments", "/departments"), h.Departments)
	crud(org.Group("teams", "/teams"), h.Teams)
	crud(org.Group("designations", "/designations"), h.Designations)
	crud(org.Group("employees", "/employees"), h.Employees).
		POST("/:id/profile-picture", h.Employees.UploadProfilePicture)

	records(protected.Group("buyers", "/buyers").Use(resource(identity.ResourceBuyer)), h.Buyers)
	records(protected.Group("sellers", "/sellers").Use(resource(identity.ResourceSeller)), h.Sellers)
	records(protected.Group("partners", "/partners").Use(resource(identity.ResourcePartner)), h.Partners)

	protected.Group("deals", "/deals").Use(resource(identity.ResourceDeal)).
		GET("", h.Deals.List).
		POST("", h.Deals.Create).
		GET("/stages", h.Deals.Stages).
		GET("/pipeline", h.Deals.Pipeline).
		GET("/:id", h.Deals.Get).
		PUT("/:id", h.Deals.Update).
		DELETE("/:id", h.Deals.Delete).
		PATCH("/:id/stage", h.Deals.ChangeStage).
		GET("/:id/stage-history", h.Deals.History).
		POST("/:id/documents", h.Deals.UploadDocument)

	files := protected.Group("files", "").Use(resource(identity.ResourceFile))
	files.Group("folders", "/folders").
		GET("", h.Files.ListFolders).
		POST("", h.Files.CreateFolder).
		DELETE("/:id", h.Files.DeleteFolder).
		GET("/:id/files", h.Files.ListFiles).
		POST("/:id/files", h.Files.Upload)
	files.Group("files", "/files").
		GET("/:id", h.Files.GetFile).
		GET("/:id/download", h.Files.Download).
		DELETE("/:id", h.Files.DeleteFile)

	// marking read only touches the caller's own inbox
	inbox := identity.NewPermission(identity.ResourceNotification, identity.ActionRead).Code
	protected.Group("notifications", "/notifications").Use(middleware.RequirePermission(inbox, sec.Permissions)).
		GET("", h.Notifications.List).
		GET("/unread-count", h.Notifications.UnreadCount).
		PATCH("/read-all", h.Notifications.MarkAllRead).
		PATCH("/:id/read", h.Notifications.MarkRead)

	return []RouteRegistrar{system, auth, protected}
}

func crud(g *DomainGroup, h CRUD) *DomainGroup {
	return g.GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func records(g *DomainGroup, h Records) *DomainGroup {
	g.GET("", h.Index).
		POST("", h.Create).
		GET("/export", h.Export)
	if h.CanImport() {
		g.POST("/import", h.Import)
	}
	return g.GET("/:id", h.Show).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete).
		PATCH("/:id/pin", h.TogglePin).
		POST("/:id/profile-picture", h.UploadProfilePicture)
}
