package routes

import (
	"net/http"

	"biosync/handlers"
	"biosync/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	questionHandler *handlers.QuestionHandler,
	sessionHandler *handlers.SessionHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Quiz routes
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetUserQuizzes)
				quizzes.POST("", quizHandler.CreateQuiz)
				quizzes.GET("/dashboard", quizHandler.GetDashboard)
				quizzes.GET("/search", quizHandler.SearchQuizzes)
				quizzes.GET("/:id", quizHandler.GetQuizByID)
				quizzes.DELETE("/:id", quizHandler.DeleteQuiz)

				// Session lifecycle: start against one quiz, then step
				// through the shared session endpoints below.
				quizzes.POST("/:id/session", sessionHandler.StartSession)
			}

			// Question pool routes
			questions := protected.Group("/questions")
			{
				questions.GET("", questionHandler.ListPool)
				questions.POST("", questionHandler.CreateQuestion)
				questions.DELETE("/:id", questionHandler.DeleteQuestion)
			}

			// Active session routes
			session := protected.Group("/session")
			{
				session.GET("/question", sessionHandler.CurrentQuestion)
				session.POST("/answer", sessionHandler.SubmitAnswer)
				session.POST("/result", sessionHandler.FinalizeSession)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
