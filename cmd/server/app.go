package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	crmapp "github.com/ventureflow/backend/internal/application/crm"
	dealapp "github.com/ventureflow/backend/internal/application/deal"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	identityapp "github.com/ventureflow/backend/internal/application/identity"
	masterdataapp "github.com/ventureflow/backend/internal/application/masterdata"
	notificationapp "github.com/ventureflow/backend/internal/application/notification"
	organizationapp "github.com/ventureflow/backend/internal/application/organization"
	"github.com/ventureflow/backend/internal/infrastructure/auth"
	"github.com/ventureflow/backend/internal/infrastructure/cache"
	"github.com/ventureflow/backend/internal/infrastructure/config"
	"github.com/ventureflow/backend/internal/infrastructure/event"
	"github.com/ventureflow/backend/internal/infrastructure/logger"
	"github.com/ventureflow/backend/internal/infrastructure/persistence"
	"github.com/ventureflow/backend/internal/infrastructure/storage"
	"github.com/ventureflow/backend/internal/interfaces/http/handler"
	"github.com/ventureflow/backend/internal/interfaces/http/middleware"
	"github.com/ventureflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// multipartOverhead is added to the upload limit for the form envelope
const multipartOverhead = 1 << 20

type app struct {
	engine *gin.Engine
	db     *persistence.Database
	redis  *redis.Client
	bus    *event.InMemoryEventBus
	log    *zap.Logger
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))
	a := &app{db: db, log: log}

	if cfg.Redis.Enabled {
		a.redis, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	objects, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	bootstrapTenant, err := uuid.Parse(cfg.Bootstrap.TenantID)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("bootstrap.tenant_id: %w", err)
	}

	// Repositories
	users := persistence.NewGormUserRepository(db.DB)
	currencies := persistence.NewGormCurrencyRepository(db.DB)
	countries := persistence.NewGormCountryRepository(db.DB)
	industries := persistence.NewGormIndustryRepository(db.DB)
	companies := persistence.NewGormCompanyRepository(db.DB)
	branches := persistence.NewGormBranchRepository(db.DB)
	departments := persistence.NewGormDepartmentRepository(db.DB)
	teams := persistence.NewGormTeamRepository(db.DB)
	designations := persistence.NewGormDesignationRepository(db.DB)
	employees := persistence.NewGormEmployeeRepository(db.DB)
	buyers := persistence.NewGormBuyerRepository(db.DB)
	sellers := persistence.NewGormSellerRepository(db.DB)
	partners := persistence.NewGormPartnerRepository(db.DB)
	deals := persistence.NewGormDealRepository(db.DB)
	folders := persistence.NewGormFileFolderRepository(db.DB)
	notifications := persistence.NewGormNotificationRepository(db.DB)

	// Token blacklist and event idempotency share the Redis client when enabled
	var blacklist auth.TokenBlacklist
	if a.redis != nil {
		blacklist = auth.NewRedisTokenBlacklist(a.redis)
	} else {
		log.Warn("Redis disabled, using in-memory token blacklist")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	idempotency := cache.NewIdempotencyStore(a.redis, log)

	a.bus = event.NewInMemoryEventBus(log)
	stageChanged := event.NewIdempotentHandler(
		notificationapp.NewDealStageChangedHandler(notifications, users, employees, log),
		idempotency, cfg.Event.IdempotencyTTL, log)
	a.bus.Subscribe(stageChanged)
	if err := a.bus.Start(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(users, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(bootstrapTenant), log)
	userService := identityapp.NewUserService(users, log)

	files := filefolderapp.NewService(folders, objects, cfg.Storage.MaxUploadSize, log)
	employeeService := organizationapp.NewEmployeeService(employees, users, files, log)

	crmDeps := crmapp.Dependencies{
		Buyers:     buyers,
		Sellers:    sellers,
		Partners:   partners,
		Employees:  employees,
		Pictures:   files,
		References: crmapp.NewMasterdataReferences(countries, currencies, industries),
		Logger:     log,
	}
	dealService := dealapp.NewService(dealapp.Dependencies{
		Deals:     deals,
		Buyers:    buyers,
		Sellers:   sellers,
		Partners:  partners,
		Employees: employees,
		Documents: files,
		Events:    a.bus,
		Logger:    log,
	})

	created, err := userService.EnsureBootstrapAdmin(ctx, identityapp.BootstrapAdmin{
		TenantID: bootstrapTenant,
		Email:    cfg.Bootstrap.AdminEmail,
		Name:     cfg.Bootstrap.AdminName,
		Password: cfg.Bootstrap.AdminPassword,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.Info("Bootstrap admin created", zap.String("email", cfg.Bootstrap.AdminEmail))
	}

	// HTTP
	middleware.SetupValidator()
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}

	employeeHandler := handler.NewEmployeeHandler(employeeService)
	handlers := router.Handlers{
		System: handler.NewSystemHandler(version, checks),
		Auth:   handler.NewAuthHandler(authService),
		Users:  handler.NewUserHandler(userService),
		Masterdata: handler.NewMasterdataHandler(
			masterdataapp.NewCurrencyService(currencies, log),
			masterdataapp.NewCountryService(countries, log),
			masterdataapp.NewIndustryService(industries, log),
		),
		Companies: handler.NewStructureHandler[organizationapp.CompanyRequest, organizationapp.CompanyResponse](
			organizationapp.NewCompanyService(companies, log)),
		Branches: handler.NewStructureHandler[organizationapp.BranchRequest, organizationapp.BranchResponse](
			organizationapp.NewBranchService(branches, companies)),
		Departments: handler.NewStructureHandler[organizationapp.DepartmentRequest, organizationapp.DepartmentResponse](
			organizationapp.NewDepartmentService(departments, companies)),
		Teams: handler.NewStructureHandler[organizationapp.TeamRequest, organizationapp.TeamResponse](
			organizationapp.NewTeamService(teams, departments)),
		Designations: handler.NewStructureHandler[organizationapp.DesignationRequest, organizationapp.DesignationResponse](
			organizationapp.NewDesignationService(designations)),
		Employees:     employeeHandler,
		Buyers:        handler.NewBuyerHandler(crmapp.NewBuyerService(crmDeps)),
		Sellers:       handler.NewSellerHandler(crmapp.NewSellerService(crmDeps)),
		Partners:      handler.NewPartnerHandler(crmapp.NewPartnerService(crmDeps)),
		Deals:         handler.NewDealHandler(dealService),
		Files:         handler.NewFileFolderHandler(files),
		Notifications: handler.NewNotificationHandler(notificationapp.NewService(notifications, log)),
	}

	security := router.Security{
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Permissions: middleware.PermissionConfig{Logger: log},
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		security.AuthLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}

	a.engine = gin.New()
	if err := a.engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		a.Close()
		return nil, fmt.Errorf("http.trusted_proxies: %w", err)
	}
	a.engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize, cfg.Storage.MaxUploadSize+multipartOverhead),
	)
	if cfg.HTTP.RateLimitEnabled {
		a.engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}

	router.NewRouter(a.engine).Register(router.API(handlers, security)...).Setup()
	return a, nil
}

func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(h.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = h.CORSAllowOrigins
	}
	if len(h.CORSAllowMethods) > 0 {
		cors.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = h.CORSAllowHeaders
	}
	return cors
}

// Close releases the bus, Redis and the database
func (a *app) Close() {
	if a.bus != nil {
		if err := a.bus.Stop(context.Background()); err != nil {
			a.log.Error("Error stopping event bus", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("Error closing database", zap.Error(err))
	}
}
