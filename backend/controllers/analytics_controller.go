package controllers

import (
	"time"

	"quizmaster/backend/middleware"
	"quizmaster/backend/models"
	"quizmaster/backend/store"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type AnalyticsController struct {
	Attempts *store.AttemptStore
	now      func() time.Time
}

func NewAnalyticsController(attempts *store.AttemptStore) *AnalyticsController {
	return &AnalyticsController{Attempts: attempts, now: time.Now}
}

type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SummaryResponse struct {
	Period Period `json:"period"`
	models.ScoreSummary
}

// GetScoreSummary godoc
// @Summary Summarize my attempts
// @Description Aggregates attempts per category and difficulty over a period (default: last month)
// @Tags scores
// @Produce json
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /scores/summary [get]
func (ac *AnalyticsController) GetScoreSummary(c *fiber.Ctx) error {
	now := ac.now()

	start := now.AddDate(0, -1, 0)
	if v := c.Query("start_date"); v != "" {
		parsed, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD")
		}
		start = parsed
	}

	end := now
	if v := c.Query("end_date"); v != "" {
		parsed, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD")
		}
		// whole day
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if start.After(end) {
		return fiber.NewError(fiber.StatusBadRequest, "start_date must not be after end_date")
	}

	summary, err := ac.Attempts.Summary(c.UserContext(), middleware.CurrentSubject(c), start, end)
	if err != nil {
		return err
	}

	return c.JSON(SummaryResponse{
		Period:       Period{StartDate: start.Format(dateLayout), EndDate: end.Format(dateLayout)},
		ScoreSummary: *summary,
	})
}
