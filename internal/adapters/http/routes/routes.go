package routes

import (
	"time"

	"shelfwise/internal/adapters/http/handlers"
	"shelfwise/internal/adapters/http/middleware"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	authService := services.NewAuthService(memberRepo, refreshTokenRepo, cfg)
	memberService := services.NewMemberService(memberRepo)
	catalogService := services.NewCatalogService(bookRepo, loanRepo)
	loanService := services.NewLoanService(loanRepo, bookRepo, memberRepo, cfg.Loan)
	dashboardService := services.NewDashboardService(memberRepo, bookRepo, loanRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	bookHandler := handlers.NewBookHandler(catalogService)
	recordHandler := handlers.NewRecordHandler(loanService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	auth := middleware.AuthMiddleware(cfg)

	// User routes. Static paths are registered before /:id so Fiber
	// never treats "me" or "login" as a member ID.
	user := apiV1.Group("/user")
	user.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	user.Post("/refresh", authHandler.RefreshToken)
	user.Post("/logout", authHandler.Logout)
	user.Post("/logout-all", auth, authHandler.LogoutAll)
	user.Get("/me", auth, authHandler.Me)

	user.Get("/", auth, middleware.RequireCapability(domain.CapViewDirectory), memberHandler.ListMembers)
	user.Post("/", auth, middleware.RequireCapability(domain.CapManageDirectory), memberHandler.RegisterMember)
	user.Get("/:id", auth, middleware.RequireCapability(domain.CapViewDirectory), memberHandler.GetMember)
	user.Put("/:id", auth, middleware.RequireCapability(domain.CapManageDirectory), memberHandler.UpdateMember)
	user.Delete("/:id", auth, middleware.RequireCapability(domain.CapManageDirectory), memberHandler.DisableMember)

	// Book routes. The catalog is readable by every member; short-lived
	// public caching keeps repeated browsing cheap.
	book := apiV1.Group("/book")
	book.Get("/", auth, middleware.RequireCapability(domain.CapViewCatalog), middleware.CacheControl(time.Minute), bookHandler.ListBooks)
	book.Get("/:id", auth, middleware.RequireCapability(domain.CapViewCatalog), middleware.CacheControl(time.Minute), bookHandler.GetBook)
	book.Post("/", auth, middleware.RequireCapability(domain.CapManageCatalog), bookHandler.CreateBook)
	book.Put("/:id", auth, middleware.RequireCapability(domain.CapManageCatalog), bookHandler.UpdateBook)

	// Record routes. Loan data must never be cached.
	record := apiV1.Group("/record", auth, middleware.NoCacheHeaders())
	record.Get("/", middleware.RequireCapability(domain.CapViewDashboard), recordHandler.ListRecords)
	record.Post("/", middleware.RequireCapability(domain.CapInitiateLoan), recordHandler.Borrow)
	record.Post("/return", middleware.RequireCapability(domain.CapInitiateReturn), recordHandler.Return)
	record.Post("/pay-fine", middleware.RequireCapability(domain.CapPayOwnFine), recordHandler.PayFine)
	record.Get("/user/:id", recordHandler.ListMemberRecords)

	// Dashboard routes
	dashboard := apiV1.Group("/dashboard", auth, middleware.NoCacheHeaders())
	dashboard.Get("/", middleware.RequireCapability(domain.CapViewDashboard), dashboardHandler.GetSummary)
}
