package routes

import (
	"quizmaster/backend/config"
	"quizmaster/backend/controllers"
	"quizmaster/backend/middleware"
	"quizmaster/backend/providers"
	"quizmaster/backend/store"
	"quizmaster/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies are the process-wide services shared by all handlers.
type Dependencies struct {
	Tokens *utils.TokenService
	Hasher *utils.PasswordHasher
	Google providers.IdentityVerifier
	Trivia *providers.TriviaClient
	Logger zerolog.Logger
}

// NewApp creates the Fiber app with the global middleware stack.
func NewApp(cfg *config.Config, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "QuizMaster API",
		ErrorHandler: utils.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Dependencies) {
	users := store.NewUserStore(db)
	attempts := store.NewAttemptStore(db)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authMiddleware := middleware.AuthMiddleware(deps.Tokens)

	// Auth routes
	authController := controllers.NewAuthController(users, deps.Tokens, deps.Hasher, deps.Google, deps.Logger)
	auth := app.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/google", authController.GoogleLogin)

	// Profile routes
	userController := controllers.NewUserController(users, deps.Tokens)
	auth.Get("/me", authMiddleware, userController.GetProfile)
	auth.Patch("/me", authMiddleware, userController.UpdateProfile)
	auth.Delete("/me", authMiddleware, userController.DeleteAccount)

	// Quiz routes
	quizController := controllers.NewQuizController(deps.Trivia)
	quiz := app.Group("/quiz", authMiddleware)
	quiz.Get("/categories", quizController.GetCategories)
	quiz.Get("/start", quizController.StartQuiz)

	// Scores routes
	scoresController := controllers.NewScoresController(attempts)
	app.Post("/scores", authMiddleware, scoresController.SubmitScore)
	app.Get("/scores", authMiddleware, scoresController.ListScores)

	analyticsController := controllers.NewAnalyticsController(attempts)
	app.Get("/scores/summary", authMiddleware, analyticsController.GetScoreSummary)
}
