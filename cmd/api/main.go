package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maheshwarig/ticketflow-api/internal/application/service"
	"github.com/maheshwarig/ticketflow-api/internal/config"
	"github.com/maheshwarig/ticketflow-api/internal/infrastructure/database"
	"github.com/maheshwarig/ticketflow-api/internal/infrastructure/repository"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/handler"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/routes"
	"github.com/maheshwarig/ticketflow-api/pkg/email"
	"github.com/maheshwarig/ticketflow-api/pkg/oauth"
	"github.com/maheshwarig/ticketflow-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	itemRepo := repository.NewItemRepository(db)
	itemUnitRepo := repository.NewItemUnitRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	quotationDetailRepo := repository.NewQuotationDetailRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	goodsLineRepo := repository.NewGoodsLineRepository(db)
	ticketEventRepo := repository.NewTicketEventRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	documentSlotRepo := repository.NewDocumentSlotRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	itemService := service.NewItemService(itemRepo, itemUnitRepo)
	companyService := service.NewCompanyService(companyRepo)
	quotationService := service.NewQuotationService(quotationRepo, quotationDetailRepo, itemRepo, companyRepo, cfg)
	ticketService := service.NewTicketService(
		ticketRepo,
		goodsLineRepo,
		ticketEventRepo,
		paymentRepo,
		documentSlotRepo,
		quotationRepo,
		itemRepo,
		userRepo,
		emailService,
		cfg,
	)
	dashboardService := service.NewDashboardService(ticketRepo, quotationRepo, itemRepo, companyRepo, analyticsRepo)

	// Periodic cleanup of expired idempotency keys and password reset tokens
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := idempotencyRepo.DeleteExpired(ctx); err != nil {
				log.Printf("Warning: failed to clean up idempotency keys: %v", err)
			}
			if err := passwordResetRepo.DeleteExpired(ctx); err != nil {
				log.Printf("Warning: failed to clean up password reset tokens: %v", err)
			}
			cancel()
		}
	}()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Item:      handler.NewItemHandler(itemService),
		Company:   handler.NewCompanyHandler(companyService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Ticket:    handler.NewTicketHandler(ticketService, cfg),
		Dashboard: handler.NewDashboardHandler(dashboardService, cfg),
		Settings:  handler.NewSettingsHandler(settingsService),
		User:      handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
