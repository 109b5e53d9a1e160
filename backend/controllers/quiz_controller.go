package controllers

import (
	"strconv"

	"quizmaster/backend/models"
	"quizmaster/backend/providers"

	"github.com/gofiber/fiber/v2"
)

type QuizController struct {
	Trivia *providers.TriviaClient
}

func NewQuizController(trivia *providers.TriviaClient) *QuizController {
	return &QuizController{Trivia: trivia}
}

type StartResponse struct {
	Items []models.Question `json:"items"`
}

// GetCategories godoc
// @Summary List trivia categories
// @Tags quiz
// @Produce json
// @Success 200 {array} models.Category
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/categories [get]
func (qc *QuizController) GetCategories(c *fiber.Ctx) error {
	categories, err := qc.Trivia.Categories()
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(categories)
}

// StartQuiz godoc
// @Summary Start a quiz
// @Description Fetches multiple-choice questions for a category
// @Tags quiz
// @Produce json
// @Param category query int true "Trivia category id"
// @Param difficulty query string false "easy|medium|hard" default(easy)
// @Param amount query int false "Number of questions" default(10)
// @Success 200 {object} StartResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/start [get]
func (qc *QuizController) StartQuiz(c *fiber.Ctx) error {
	category, err := strconv.Atoi(c.Query("category"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "category must be an integer")
	}

	amount, err := strconv.Atoi(c.Query("amount", "10"))
	if err != nil || amount < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be a positive integer")
	}

	difficulty := c.Query("difficulty", "easy")

	questions, err := qc.Trivia.Questions(category, difficulty, amount)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(StartResponse{Items: questions})
}

func upstreamError(err error) error {
	return fiber.NewError(fiber.StatusBadGateway, "External API error: "+err.Error())
}
