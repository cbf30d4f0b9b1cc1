package routes

import (
	"coopwelfare/internal/adapters/http/handlers"
	"coopwelfare/internal/adapters/http/middleware"
	"coopwelfare/internal/adapters/persistence/repositories"
	"coopwelfare/internal/config"
	"coopwelfare/internal/core/services"
	"coopwelfare/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.SchedulerService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	dependentRepo := repositories.NewDependentRepository(db)
	planRepo := repositories.NewContributionPlanRepository(db)
	contributionRepo := repositories.NewContributionRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	repaymentRepo := repositories.NewLoanRepaymentRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	settingRepo := repositories.NewSettingRepository(db)
	txManager := repositories.NewTxManager(db)

	receiptStore := storage.NewDiskStore(cfg.Storage.Root, "receipts")

	// Initialize services
	notifyService := services.NewNotificationService()
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT)
	memberService := services.NewMemberService(memberRepo, dependentRepo)
	contributionService := services.NewContributionService(
		contributionRepo, planRepo, memberRepo, txManager, receiptStore, notifyService,
	)
	loanService := services.NewLoanService(
		loanRepo, repaymentRepo, memberRepo, txManager, receiptStore, notifyService,
	)
	eligibilityService := services.NewEligibilityService(
		memberRepo, dependentRepo, contributionRepo, settingRepo,
	)
	ledgerService := services.NewLedgerService(ledgerRepo)
	settingService := services.NewSettingService(settingRepo)
	schedulerService := services.NewSchedulerService(loanRepo, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	contributionHandler := handlers.NewContributionHandler(contributionService, authService)
	loanHandler := handlers.NewLoanHandler(loanService, authService)
	eligibilityHandler := handlers.NewEligibilityHandler(eligibilityService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	settingHandler := handlers.NewSettingHandler(settingService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, memberHandler, contributionHandler,
		loanHandler, eligibilityHandler, ledgerHandler, settingHandler, cfg)

	return schedulerService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	memberHandler *handlers.MemberHandler,
	contributionHandler *handlers.ContributionHandler,
	loanHandler *handlers.LoanHandler,
	eligibilityHandler *handlers.EligibilityHandler,
	ledgerHandler *handlers.LedgerHandler,
	settingHandler *handlers.SettingHandler,
	cfg *config.Config,
) {
	auth := middleware.AuthMiddleware(cfg)
	staff := middleware.StaffOnly()
	admin := middleware.AdminOnly()

	// Auth routes
	authGroup := router.Group("/auth")
	authGroup.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", auth, authHandler.Me)
	authGroup.Post("/users", auth, admin, authHandler.CreateUser)

	// Member routes (staff manage members, any logged-in user can read)
	members := router.Group("/members", auth)
	members.Post("/", staff, memberHandler.Create)
	members.Get("/", staff, memberHandler.List)
	members.Get("/search", staff, memberHandler.Search)
	members.Get("/:id", memberHandler.Get)
	members.Put("/:id", staff, memberHandler.Update)
	members.Delete("/:id", admin, memberHandler.Delete)
	members.Post("/:id/dependents", staff, memberHandler.AddDependent)
	members.Get("/:id/dependents", memberHandler.ListDependents)
	members.Delete("/:id/dependents/:dependentId", staff, memberHandler.RemoveDependent)
	members.Get("/:memberId/contributions", contributionHandler.ListByMember)
	members.Get("/:memberId/loans", loanHandler.ListByMember)
	members.Get("/:id/eligibility", eligibilityHandler.CheckMember)

	// Dependent routes
	dependents := router.Group("/dependents", auth)
	dependents.Get("/:id/eligibility", eligibilityHandler.CheckDependent)

	// Contribution routes
	contributions := router.Group("/contributions", auth)
	contributions.Post("/submit", middleware.RoleMiddleware("MEMBER"), contributionHandler.Submit)
	contributions.Post("/", staff, contributionHandler.Record)
	contributions.Get("/pending", staff, contributionHandler.ListPendingReview)
	contributions.Get("/plans", contributionHandler.ListPlans)
	contributions.Get("/:id", contributionHandler.Get)
	contributions.Post("/:id/review", staff, contributionHandler.Review)

	// Loan routes
	loans := router.Group("/loans", auth)
	loans.Post("/", loanHandler.Apply)
	loans.Get("/", staff, loanHandler.List)
	loans.Get("/:id", loanHandler.Get)
	loans.Post("/:id/approve", staff, loanHandler.Approve)
	loans.Post("/:id/disburse", staff, loanHandler.Disburse)
	loans.Post("/:id/repayments", staff, loanHandler.RecordRepayment)
	loans.Get("/:id/repayments", loanHandler.ListRepayments)
	loans.Post("/:id/default", staff, loanHandler.MarkAsDefaulted)

	// Ledger routes (read-only)
	ledger := router.Group("/ledger", auth, staff)
	ledger.Get("/", ledgerHandler.List)
	ledger.Get("/summary", ledgerHandler.Summary)
	ledger.Get("/:type/:id", ledgerHandler.ListByReference)

	// Settings routes
	settings := router.Group("/settings", auth, admin)
	settings.Get("/", settingHandler.List)
	settings.Get("/:key", settingHandler.Get)
	settings.Put("/:key", settingHandler.Update)
}
