package controllers

import (
	"time"

	"quizmaster/backend/middleware"
	"quizmaster/backend/models"
	"quizmaster/backend/store"
	"quizmaster/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ScoresController struct {
	Attempts *store.AttemptStore
}

func NewScoresController(attempts *store.AttemptStore) *ScoresController {
	return &ScoresController{Attempts: attempts}
}

// SubmitScoreRequest is trusted as sent: negative counts, correct > total and
// empty labels are all stored. Only the column sizes are enforced.
type SubmitScoreRequest struct {
	Total      int    `json:"total"`
	Correct    int    `json:"correct"`
	Category   string `json:"category" validate:"max=128"`
	Difficulty string `json:"difficulty" validate:"max=32"`
}

type ScoreResponse struct {
	ID         uint      `json:"id"`
	Total      int       `json:"total"`
	Correct    int       `json:"correct"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newScoreResponse(a *models.Attempt) ScoreResponse {
	return ScoreResponse{
		ID:         a.ID,
		Total:      a.Total,
		Correct:    a.Correct,
		Category:   a.Category,
		Difficulty: a.Difficulty,
		CreatedAt:  a.CreatedAt,
	}
}

// SubmitScore godoc
// @Summary Record a quiz attempt
// @Tags scores
// @Accept json
// @Produce json
// @Param request body SubmitScoreRequest true "Attempt result"
// @Success 200 {object} ScoreResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /scores [post]
func (sc *ScoresController) SubmitScore(c *fiber.Ctx) error {
	var input SubmitScoreRequest
	verrs, err := utils.ParseBody(c, &input)
	if err != nil {
		return err
	}
	if verrs != nil {
		return utils.ValidationError(c, verrs)
	}

	attempt, err := sc.Attempts.Submit(c.UserContext(), middleware.CurrentSubject(c), store.SubmitParams{
		Total:      input.Total,
		Correct:    input.Correct,
		Category:   input.Category,
		Difficulty: input.Difficulty,
	})
	if err != nil {
		return err
	}

	return c.JSON(newScoreResponse(attempt))
}

// ListScores godoc
// @Summary List my attempts
// @Description Newest first
// @Tags scores
// @Produce json
// @Success 200 {array} ScoreResponse
// @Security ApiKeyAuth
// @Router /scores [get]
func (sc *ScoresController) ListScores(c *fiber.Ctx) error {
	attempts, err := sc.Attempts.List(c.UserContext(), middleware.CurrentSubject(c))
	if err != nil {
		return err
	}

	scores := make([]ScoreResponse, 0, len(attempts))
	for i := range attempts {
		scores = append(scores, newScoreResponse(&attempts[i]))
	}
	return c.JSON(scores)
}
