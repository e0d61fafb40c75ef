package main

import (
	"log"
	"net/http"

	_ "idcard-backend/api/swagger" // swagger docs
	"idcard-backend/internal/config"
	"idcard-backend/internal/database"
	"idcard-backend/internal/handler"
	"idcard-backend/internal/idcard"
	"idcard-backend/internal/middleware"
	"idcard-backend/internal/repository"
	"idcard-backend/internal/service"
	"idcard-backend/internal/storage"
	"idcard-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           ID Card Issuance API
// @version         1.0
// @description     Backend for ID-card generation and approval: employees/interns submit identity data and a photo, the system renders a printable card PDF, and Admin/Approver accounts review submissions.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	middleware.Init(cfg.JWTSecret)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	cardRepo := repository.NewCardRepository(db)

	generator := idcard.NewGenerator(cfg.UploadDir, cfg.GeneratedDir, cfg.PublicPrefix, cfg.GenerateTimeout)
	cleaner := storage.NewCleaner(cfg.UploadDir, cfg.PublicPrefix)

	userService := service.NewUserService(userRepo, cfg.JWTSecret)
	cardService := service.NewCardService(db, cardRepo, txManager, generator, cleaner, wsHub)
	auditService := service.NewAuditService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	cardHandler := handler.NewCardHandler(cardService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendOrigin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Cap request body size; oversized uploads fail at the HTTP layer before
	// the pipeline sees them.
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxUploadBytes)
		c.Next()
	})

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, cfg.JWTSecret)
	})

	// Generated photos and PDFs are exposed under the public prefix
	router.Static(cfg.PublicPrefix, cfg.UploadDir)

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	cardHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
