package main

import (
	"log"

	"biosync/config"
	"biosync/handlers"
	"biosync/models"
	"biosync/routes"
	"biosync/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present, otherwise rely on the process environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Event publisher is optional; without a broker the quiz flow still
	// works, completion events are just not published.
	var publisher *services.EventPublisher
	if cfg.AMQPURL != "" {
		publisher, err = services.NewEventPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("Failed to connect to AMQP broker:", err)
		}
		defer publisher.Close()
	} else {
		log.Println("AMQP not configured, quiz events will not be published")
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db)
	questionService := services.NewQuestionService(db)
	sessionService := services.NewQuizSessionService(
		services.NewGormQuizStore(db),
		services.NewGormQuestionStore(db),
		services.NewRedisSessionStore(redisClient),
		publisher,
		cfg.NormalizeAnswers,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(cors.Default())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, questionHandler, sessionHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
