package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"vintervu/config"
	"vintervu/database"
	"vintervu/internal/controller"
	"vintervu/internal/logger"
	"vintervu/internal/middleware"
	"vintervu/internal/model"
	"vintervu/internal/repository"
	"vintervu/internal/service"
	"vintervu/internal/session"
)

// @title VIntervu API
// @version 1.0
// @description Resume-driven AI interview practice: upload a resume, answer generated questions, and track scored feedback over time.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewFeedbackRepository,
		),

		fx.Provide(
			session.NewManager,
			service.NewGeminiService,
			service.NewExtractService,
			service.NewAuthService,
			service.NewResumeService,
			service.NewInterviewService,
			service.NewDashboardService,
		),

		fx.Provide(
			controller.NewAuthController,
			controller.NewResumeController,
			controller.NewInterviewController,
			controller.NewDashboardController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return r
}

// RegisterRoutesAndStartServer wires API routes and manages server lifecycle.
// Everything except signup and login sits behind the bearer-token middleware.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authSvc service.AuthService,
	authCtrl *controller.AuthController,
	resumeCtrl *controller.ResumeController,
	interviewCtrl *controller.InterviewController,
	dashboardCtrl *controller.DashboardController,
) {
	api := router.Group("/api/v1")
	authCtrl.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(authSvc))
	resumeCtrl.RegisterRoutes(protected)
	interviewCtrl.RegisterRoutes(protected)
	dashboardCtrl.RegisterRoutes(protected)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("VIntervu API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&model.User{}, &model.Feedback{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
