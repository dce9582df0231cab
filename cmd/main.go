package main

import (
	"context"
	"log"

	"sewlovely/internal/caching"
	"sewlovely/internal/config"
	"sewlovely/internal/handlers"
	"sewlovely/internal/jobs"
	"sewlovely/internal/jobs/background"
	"sewlovely/internal/middleware"
	"sewlovely/internal/repositories"
	"sewlovely/internal/services"
	"sewlovely/pkg/database"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Proof storage
	proofStorage, err := services.NewMinioProofStorage(cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize proof storage: %v", err)
	}
	if err := proofStorage.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not ensure proof bucket exists: %v", err)
	}

	// Cache service
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	surveyRepo := repositories.NewSurveyRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	transactionRepo := repositories.NewTransactionRepo(pool)
	partnerRepo := repositories.NewPartnerRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool, cfg.DefaultCommissionPercentage)

	// Services
	surveySvc := services.NewSurveyService(surveyRepo)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, surveySvc)
	commissionSvc := services.NewCommissionService(pool, surveyRepo, invoiceRepo, transactionRepo, settingsRepo)
	withdrawalSvc := services.NewWithdrawalService(pool, transactionRepo, partnerRepo)
	pricingSvc := services.NewPricingService()

	// Handlers
	surveyHandlers := handlers.NewSurveyHandlers(surveySvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, commissionSvc, proofStorage)
	withdrawalHandlers := handlers.NewWithdrawalHandlers(withdrawalSvc, proofStorage)
	partnerHandlers := handlers.NewPartnerHandlers(partnerRepo, withdrawalSvc)
	productHandlers := handlers.NewProductHandlers(productRepo, cacheSvc, pricingSvc)
	settingsHandlers := handlers.NewSettingsHandlers(settingsRepo)

	// Background jobs
	reconciler := jobs.NewLedgerReconciler(transactionRepo)
	scheduler := background.NewJobScheduler(reconciler, cacheSvc, productRepo)
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()

	// Echo instance
	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})

	// Admin API
	api := e.Group("/api/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}))
	api.Use(middleware.AdminContext())

	api.POST("/surveys", surveyHandlers.CreateSurvey)
	api.GET("/surveys", surveyHandlers.ListSurveys)
	api.GET("/surveys/:id", surveyHandlers.GetSurvey)
	api.PATCH("/surveys/:id/notes", surveyHandlers.UpdateSurveyNotes)
	api.POST("/surveys/:id/status", surveyHandlers.TransitionSurvey)
	api.GET("/surveys/:id/invoices", invoiceHandlers.ListSurveyInvoices)
	api.POST("/surveys/:id/disburse", invoiceHandlers.DisburseCommission)

	api.POST("/invoices", invoiceHandlers.CreateInvoice)
	api.GET("/invoices", invoiceHandlers.ListInvoices)
	api.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	api.GET("/invoices/:id/proof", invoiceHandlers.GetInvoiceProofURL)
	api.POST("/invoices/:id/approve", invoiceHandlers.ApproveInvoice)
	api.POST("/invoices/:id/reject", invoiceHandlers.RejectInvoice)

	api.POST("/withdrawals", withdrawalHandlers.RequestWithdrawal)
	api.GET("/withdrawals/pending", withdrawalHandlers.ListPendingWithdrawals)
	api.POST("/withdrawals/:id/approve", withdrawalHandlers.ApproveWithdrawal)
	api.POST("/withdrawals/:id/reject", withdrawalHandlers.RejectWithdrawal)

	api.POST("/partners", partnerHandlers.CreatePartner)
	api.GET("/partners", partnerHandlers.ListPartners)
	api.PUT("/partners/:id", partnerHandlers.UpdatePartner)
	api.GET("/partners/:id/balance", partnerHandlers.GetPartnerBalance)
	api.GET("/partners/:id/transactions", partnerHandlers.ListPartnerTransactions)

	api.GET("/products", productHandlers.ListProducts)
	api.POST("/products", productHandlers.CreateProduct)
	api.GET("/products/:id", productHandlers.GetProduct)
	api.PUT("/products/:id", productHandlers.UpdateProduct)
	api.DELETE("/products/:id", productHandlers.DeleteProduct)
	api.POST("/products/quote", productHandlers.Quote)

	api.GET("/settings/commission", settingsHandlers.GetCommissionPercentage)
	api.PUT("/settings/commission", settingsHandlers.SetCommissionPercentage)

	log.Fatal(e.Start(cfg.ListenAddr))
}
