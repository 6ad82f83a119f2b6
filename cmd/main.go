package main

import (
	"log"
	"os"
	"time"

	"github.com/workhive/workhive-server/internal/config"
	"github.com/workhive/workhive-server/internal/database"
	"github.com/workhive/workhive-server/internal/domain"
	"github.com/workhive/workhive-server/internal/handler"
	"github.com/workhive/workhive-server/internal/middleware"
	"github.com/workhive/workhive-server/internal/repository"
	"github.com/workhive/workhive-server/internal/routes"
	"github.com/workhive/workhive-server/internal/service"
	"github.com/workhive/workhive-server/pkg/genai"
	"github.com/workhive/workhive-server/pkg/imagekit"
	"github.com/workhive/workhive-server/pkg/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	jwtManager := jwt.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	imagekitClient := imagekit.NewClient(imagekit.Config{
		PublicKey:   cfg.ImageKit.PublicKey,
		PrivateKey:  cfg.ImageKit.PrivateKey,
		URLEndpoint: cfg.ImageKit.URLEndpoint,
	})

	// Extraction stays optional: without an API key the endpoint reports
	// unavailable instead of the whole server refusing to start.
	var genaiClient domain.GenerativeClient
	if cfg.GenAI.APIKey != "" {
		client, err := genai.NewClient(genai.Config{
			APIKey: cfg.GenAI.APIKey,
			Model:  cfg.GenAI.Model,
		})
		if err != nil {
			log.Fatalf("Failed to create genai client: %v", err)
		}
		genaiClient = client
	} else {
		log.Println("GENAI_API_KEY not set, document extraction is disabled")
	}

	validate := validator.New()

	candidateRepo := repository.NewCandidateRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	resumeService := service.NewResumeService(resumeRepo, candidateRepo, imagekitClient)
	profileService := service.NewProfileService(candidateRepo, skillRepo, resumeService, validate)
	extractionService := service.NewExtractionService(genaiClient, time.Duration(cfg.GenAI.TimeoutSeconds)*time.Second)
	approvalService := service.NewApprovalService(candidateRepo, cacheRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	profileHandler := handler.NewProfileHandler(profileService, extractionService, approvalService)
	resumeHandler := handler.NewResumeHandler(resumeService)
	approvalHandler := handler.NewApprovalHandler(approvalService)

	app := fiber.New(fiber.Config{
		AppName:      "WorkHive API",
		ErrorHandler: customErrorHandler,
		BodyLimit:    20 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: false,
	}))

	routes.Setup(app, routes.Handlers{
		Profile:  profileHandler,
		Resume:   resumeHandler,
		Approval: approvalHandler,
	}, routes.Middlewares{
		Auth: authMiddleware,
	})

	port := cfg.App.Port
	if port == "" {
		port = "3000"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
