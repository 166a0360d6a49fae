package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/carehub/healthcare-api/docs"
	"github.com/carehub/healthcare-api/internal/api/handler"
	"github.com/carehub/healthcare-api/internal/api/middleware"
	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/service"
	mongostore "github.com/carehub/healthcare-api/internal/infrastructure/db/mongo"
	redisstore "github.com/carehub/healthcare-api/internal/infrastructure/db/redis"
	"github.com/carehub/healthcare-api/internal/infrastructure/http/handlers"
	"github.com/carehub/healthcare-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Logger(log))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))

	// --- Dependencies ---
	accounts := mongostore.NewAccountRepository(db)
	patients := mongostore.NewPatientRepository(db)
	doctors := mongostore.NewDoctorRepository(db)
	consultations := mongostore.NewConsultationRepository(db)
	records := mongostore.NewMedicalRecordRepository(db)
	revocations := redisstore.NewRevocationStore(rdb)

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:     []byte(cfg.Auth.JWTSecret),
		Algorithm:  cfg.Auth.JWTAlgorithm,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	authService := service.NewAuthService(service.AuthDependencies{
		Accounts:    accounts,
		Patients:    patients,
		Doctors:     doctors,
		Hasher:      service.NewBcryptHasher(cfg.Auth.PasswordHashCost),
		Tokens:      tokens,
		Revocations: revocations,
		Logger:      log,
	})
	resolver := service.NewIdentityResolver(tokens, accounts, revocations)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(service.NewUserService(accounts, log))
	patientHandler := handler.NewPatientHandler(service.NewPatientService(patients, accounts, log))
	doctorHandler := handler.NewDoctorHandler(service.NewDoctorService(doctors, accounts, log))
	consultationHandler := handler.NewConsultationHandler(service.NewConsultationService(consultations, patients, doctors, log))
	recordHandler := handler.NewMedicalRecordHandler(service.NewMedicalRecordService(records, patients, log))

	authMiddleware := middleware.Auth(resolver)
	admin := middleware.RBAC(domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleDoctor)
	patientOnly := middleware.RBAC(domain.RolePatient)
	doctorOnly := middleware.RBAC(domain.RoleDoctor)

	// --- Auth routes ---
	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout, authMiddleware)
	authGroup.GET("/whoami", authHandler.WhoAmI, authMiddleware)

	// --- Users ---
	users := e.Group("/users", authMiddleware)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.GET("/me/profile", authHandler.Profile)
	users.GET("", userHandler.List, admin)
	users.PATCH("/:id", userHandler.Update, admin)

	// --- Patients ---
	patientRoutes := e.Group("/patients", authMiddleware)
	patientRoutes.GET("", patientHandler.List, staff)
	patientRoutes.POST("", patientHandler.Create, admin)
	patientRoutes.GET("/me", patientHandler.Mine, patientOnly)
	patientRoutes.PATCH("/me", patientHandler.UpdateMine, patientOnly)
	patientRoutes.GET("/:id", patientHandler.Get, staff)
	patientRoutes.PATCH("/:id", patientHandler.Update, staff)
	patientRoutes.DELETE("/:id", patientHandler.Delete, admin)

	// --- Doctors (directory is public) ---
	e.GET("/doctors", doctorHandler.List)
	e.POST("/doctors", doctorHandler.Create, authMiddleware, admin)
	e.GET("/doctors/me", doctorHandler.Mine, authMiddleware, doctorOnly)
	e.PATCH("/doctors/me", doctorHandler.UpdateMine, authMiddleware, doctorOnly)
	e.GET("/doctors/:id", doctorHandler.Get)
	e.PATCH("/doctors/:id", doctorHandler.Update, authMiddleware, admin)
	e.DELETE("/doctors/:id", doctorHandler.Delete, authMiddleware, admin)

	// --- Consultations (scoping in the service) ---
	consultationRoutes := e.Group("/consultations", authMiddleware)
	consultationRoutes.POST("", consultationHandler.Create, middleware.RBAC(domain.RolePatient, domain.RoleAdmin))
	consultationRoutes.GET("", consultationHandler.List)
	consultationRoutes.GET("/:id", consultationHandler.Get)
	consultationRoutes.PATCH("/:id", consultationHandler.Update, staff)

	// --- Medical records ---
	recordRoutes := e.Group("/medical-records", authMiddleware)
	recordRoutes.POST("", recordHandler.Create, staff)
	recordRoutes.GET("", recordHandler.List)
	recordRoutes.GET("/:id", recordHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(
		handlers.DependencyCheck{Name: "mongodb", Ping: mongostore.Ping(db)},
		handlers.DependencyCheck{Name: "redis", Ping: redisstore.Ping(rdb)},
	)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
