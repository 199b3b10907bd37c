package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mindnest/backend/internal/gamification"
	"github.com/mindnest/backend/internal/handlers"
	"github.com/mindnest/backend/internal/middleware"
	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/push"
	"github.com/mindnest/backend/internal/repositories"
	"github.com/mindnest/backend/pkg/config"
	firebasePkg "github.com/mindnest/backend/pkg/firebase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseApp *firebasePkg.App, logger *zap.Logger) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.Notification{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database("mindnest")
	profileRepo := repositories.NewMongoProfileRepository(mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	chatRepo := repositories.NewMongoChatRepository(mongoDB)
	sessionRepo := repositories.NewMongoSessionRepository(mongoDB)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Core services ---
	ledger := gamification.NewEventLedger(profileRepo, logger)

	var gateway push.Gateway
	if cfg.PushDryRun || len(cfg.MissingPushCredentials()) > 0 {
		log.Println("Push gateway running in dry-run mode.")
		gateway = push.NewDryRunGateway(logger)
	} else {
		gateway = push.NewFCMGateway(firebaseApp.MessagingClient)
	}
	dispatcher := push.NewNotificationDispatcher(profileRepo, gateway, logger)

	// --- Unprotected push-send surface for server-side triggers ---
	pushHandler := handlers.NewPushHandler(cfg, dispatcher)
	pushHandler.RegisterPushRoutes(e)
	log.Println("Push routes configured.")

	// --- Protected routes (require Firebase authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseApp.AuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	// Profile routes
	profileHandler := handlers.NewProfileHandler(profileRepo)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, notificationRepo, ledger, dispatcher, logger)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, notificationRepo, ledger, dispatcher, logger)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Chat room routes
	chatHandler := handlers.NewChatHandler(chatRepo, ledger)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	// Meditation session routes
	sessionHandler := handlers.NewSessionHandler(sessionRepo, ledger)
	sessionHandler.RegisterSessionRoutes(api)
	log.Println("Session routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
