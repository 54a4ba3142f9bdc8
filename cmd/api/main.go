package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/handlers"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(
		cfg.Storage.ResumePath,
		cfg.Storage.MediaTempPath,
		cfg.Storage.MaxFileSize,
		cfg.Storage.MaxVideoSize,
	)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create storage directories: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	authService := services.NewAuthService(cfg.Auth)
	userService := services.NewUserService(userRepo, authService)
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Company knowledge base is optional
	var knowledgeService services.KnowledgeService
	if cfg.Knowledge.Enabled() {
		store, err := services.NewQdrantService(cfg.Knowledge.URL, cfg.Knowledge.APIKey, cfg.Knowledge.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := store.InitCollection(context.Background()); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		knowledgeService = services.NewKnowledgeService(store, geminiService, services.NewTextChunker(1000, 200))
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("ℹ️  QDRANT_URL not set, company knowledge base disabled")
	}

	evaluationService := services.NewEvaluationService(geminiService)
	interviewService := services.NewInterviewService(geminiService, evaluationService, knowledgeService, cfg.Interview)
	resumeService := services.NewResumeService(userRepo, storageService, pdfParser, interviewService)
	log.Println("✅ Interview service initialized")

	// Start media janitor
	janitor := services.NewMediaJanitor(cfg.Storage.MediaTempPath, cfg.Storage.MediaTTL, cfg.Storage.JanitorInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	janitor.Start(ctx)

	// Initialize Handlers
	routes := handlers.Routes{
		Users:     userService,
		Auth:      handlers.NewAuthHandler(userService),
		Resumes:   handlers.NewResumeHandler(resumeService),
		Interview: handlers.NewInterviewHandler(interviewService, storageService, cfg.Interview.Companies),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app. Rounds wait on media processing and several oracle
	// calls, so the write timeout covers the full poll budget.
	app := fiber.New(fiber.Config{
		AppName:      "Interview Prep API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.Gemini.PollTimeout + 5*time.Minute,
		BodyLimit:    int(max(cfg.Storage.MaxFileSize, cfg.Storage.MaxVideoSize)) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.Server.CORSOrigins != "*",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	handlers.RegisterRoutes(app, routes)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Interview Prep API",
			"version":   "1.0.0",
			"endpoints": handlers.Endpoints,
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		janitor.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
