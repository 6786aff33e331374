package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/database"
	_ "github.com/vxacademy/academy/docs" // swagger docs, regenerated with swag init -g cmd/main.go
	"github.com/vxacademy/academy/internal/controller"
	adminctrl "github.com/vxacademy/academy/internal/controller/admin"
	userctrl "github.com/vxacademy/academy/internal/controller/user"
	"github.com/vxacademy/academy/internal/logger"
	"github.com/vxacademy/academy/internal/mailer"
	"github.com/vxacademy/academy/internal/repository"
	"github.com/vxacademy/academy/internal/scheduler"
	"github.com/vxacademy/academy/internal/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title VX Academy LMS API
// @version 1.0
// @description Content hierarchy, learner progress, assessments and certificates of the VX Academy learning platform.
// @contact.name VX Academy Platform Team
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.NopLogger,

		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			mailer.NewMailer,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewTrainingAreaRepository,
			repository.NewModuleRepository,
			repository.NewCourseRepository,
			repository.NewUnitRepository,
			repository.NewAssessmentRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewProgressRepository,
			repository.NewUserRepository,
			repository.NewOrganizationRepository,
			repository.NewRoleRepository,
			repository.NewEnrollmentRepository,
			repository.NewCertificateRepository,
			repository.NewBadgeRepository,
			repository.NewNotificationRepository,
			repository.NewReportRepository,
		),

		// Services
		fx.Provide(
			service.NewContentService,
			service.NewProgressService,
			service.NewAssessmentService,
			service.NewCertificateService,
			service.NewEnrollmentService,
			service.NewBadgeService,
			service.NewNotificationService,
			service.NewUserService,
			service.NewOrganizationService,
			service.NewRoleService,
			service.NewReportService,
			service.NewAssistantService,
		),

		// Controllers
		fx.Provide(
			adminctrl.NewContentController,
			adminctrl.NewAssessmentController,
			adminctrl.NewUserController,
			adminctrl.NewOrganizationController,
			adminctrl.NewRoleController,
			adminctrl.NewEngagementController,
			userctrl.NewCatalogController,
			userctrl.NewLearningController,
			userctrl.NewProfileController,
		),

		fx.Provide(scheduler.NewScheduler),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(func(*scheduler.Scheduler) {}),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// ConfigureLogger re-applies the logger settings once the configuration is known.
func ConfigureLogger(cfg *config.Config) {
	logger.Configure(cfg.App.Debug, cfg.App.LogLevel)
}

func AutoMigrateDB(lc fx.Lifecycle, db *gorm.DB) error {
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return nil
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	controller.SetupValidator()

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
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

	// http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer mounts the back-office API under /api/v1/admin,
// the learner API under /api/v1 and manages the HTTP server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	contentCtrl *adminctrl.ContentController,
	assessmentCtrl *adminctrl.AssessmentController,
	userAdminCtrl *adminctrl.UserController,
	orgCtrl *adminctrl.OrganizationController,
	roleCtrl *adminctrl.RoleController,
	engagementCtrl *adminctrl.EngagementController,
	catalogCtrl *userctrl.CatalogController,
	learningCtrl *userctrl.LearningController,
	profileCtrl *userctrl.ProfileController,
) {
	adminAPI := router.Group("/api/v1/admin")
	contentCtrl.RegisterRoutes(adminAPI)
	assessmentCtrl.RegisterRoutes(adminAPI)
	userAdminCtrl.RegisterRoutes(adminAPI)
	orgCtrl.RegisterRoutes(adminAPI)
	roleCtrl.RegisterRoutes(adminAPI)
	engagementCtrl.RegisterRoutes(adminAPI)

	userAPI := router.Group("/api/v1")
	catalogCtrl.RegisterRoutes(userAPI)
	learningCtrl.RegisterRoutes(userAPI)
	profileCtrl.RegisterRoutes(userAPI)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("VX Academy API starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
