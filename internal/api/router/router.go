package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"lomba-pmr/internal/api/handlers"
	"lomba-pmr/internal/api/middleware"
	"lomba-pmr/internal/config"
	"lomba-pmr/internal/infrastructure/cache"
	"lomba-pmr/internal/infrastructure/repository"
	"lomba-pmr/internal/service"
)

// Components bundles the router with the services that own background
// goroutines, so the server command can stop them on shutdown.
type Components struct {
	Router    *gin.Engine
	Numbering *service.NumberingService
}

// New wires repositories, services and handlers onto a gin engine.
func New(db *gorm.DB) (*Components, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(cors.Default())
	r.Use(gin.Recovery())

	cfg := config.Get()

	regRepo := repository.NewRegistrationRepository(db)
	entryRepo := repository.NewNumberEntryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	standingsCache := cache.NewStandingsCache(&cfg.Cache)

	registrationService := service.NewRegistrationService(regRepo, paymentRepo)
	numberingService := service.NewNumberingService(
		regRepo,
		entryRepo,
		time.Duration(cfg.Numbering.RefreshSeconds)*time.Second,
		time.Duration(cfg.Numbering.BoardTTLMinutes)*time.Minute,
	)
	numberingService.Start()
	leaderboardService := service.NewLeaderboardService(
		scoreRepo,
		regRepo,
		standingsCache,
		time.Duration(cfg.Cache.StandingsTTLMins)*time.Minute,
	)
	financeService := service.NewFinanceService(sqlxDB)

	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	numberingHandler := handlers.NewNumberingHandler(numberingService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	financeHandler := handlers.NewFinanceHandler(financeService)
	catalogHandler := handlers.NewCatalogHandler()
	healthHandler := handlers.NewHealthHandler(db)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	v1 := r.Group("/api/v1")
	{
		registrations := v1.Group("/registrations")
		{
			registrations.POST("", registrationHandler.CreateRegistration)
			registrations.GET("", registrationHandler.ListRegistrations)
			registrations.GET("/:id", registrationHandler.GetRegistration)
			registrations.PATCH("/:id/status", registrationHandler.UpdateStatus)
			registrations.PUT("/:id/events", registrationHandler.UpdateEventCounts)
			registrations.GET("/:id/payments", registrationHandler.ListPayments)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", registrationHandler.AddPayment)
			payments.PATCH("/:id/review", registrationHandler.ReviewPayment)
		}

		numbering := v1.Group("/numbering/boards")
		{
			numbering.POST("", numberingHandler.OpenBoard)
			numbering.GET("/:board_id", numberingHandler.GetBoard)
			numbering.PUT("/:board_id/slots/:slot_id", numberingHandler.AssignNumber)
			numbering.POST("/:board_id/save", numberingHandler.SaveBoard)
			numbering.POST("/:board_id/refresh", numberingHandler.RefreshBoard)
			numbering.DELETE("/:board_id", numberingHandler.CloseBoard)
		}

		v1.GET("/catalog", catalogHandler.GetCatalog)

		v1.POST("/scores", leaderboardHandler.SubmitScore)
		v1.GET("/leaderboard", leaderboardHandler.GetOverallStandings)
		v1.GET("/leaderboard/:event", leaderboardHandler.GetStandings)

		v1.GET("/finance/summary", financeHandler.GetSummary)
	}

	return &Components{
		Router:    r,
		Numbering: numberingService,
	}, nil
}
