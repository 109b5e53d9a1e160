package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quizmaster/backend/models"

	"github.com/gofiber/fiber/v2"
)

// ErrUpstream wraps every failure talking to the trivia provider.
var ErrUpstream = errors.New("trivia provider request failed")

// TriviaClient reads categories and questions from an Open Trivia DB
// compatible API. There is no retry and no caching.
type TriviaClient struct {
	baseURL string
	timeout time.Duration
}

func NewTriviaClient(baseURL string, timeout time.Duration) *TriviaClient {
	return &TriviaClient{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

type categoriesPayload struct {
	TriviaCategories []models.Category `json:"trivia_categories"`
}

type questionsPayload struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

func (t *TriviaClient) Categories() ([]models.Category, error) {
	var payload categoriesPayload
	if err := t.get("/api_category.php", nil, &payload); err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(payload.TriviaCategories))
	for _, c := range payload.TriviaCategories {
		categories = append(categories, models.Category{ID: c.ID, Name: html.UnescapeString(c.Name)})
	}
	return categories, nil
}

// Questions fetches amount multiple-choice questions.
func (t *TriviaClient) Questions(category int, difficulty string, amount int) ([]models.Question, error) {
	query := url.Values{}
	query.Set("amount", strconv.Itoa(amount))
	query.Set("type", "multiple")
	query.Set("category", strconv.Itoa(category))
	query.Set("difficulty", difficulty)

	var payload questionsPayload
	if err := t.get("/api.php", query, &payload); err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(payload.Results))
	for _, r := range payload.Results {
		incorrect := make([]string, 0, len(r.IncorrectAnswers))
		for _, a := range r.IncorrectAnswers {
			incorrect = append(incorrect, html.UnescapeString(a))
		}
		questions = append(questions, models.Question{
			Question:         html.UnescapeString(r.Question),
			CorrectAnswer:    html.UnescapeString(r.CorrectAnswer),
			IncorrectAnswers: incorrect,
		})
	}
	return questions, nil
}

func (t *TriviaClient) get(path string, query url.Values, out interface{}) error {
	agent := fiber.Get(t.baseURL + path)
	agent.Timeout(t.timeout)
	if len(query) > 0 {
		agent.QueryString(query.Encode())
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrUpstream, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("%w: %s returned status %d", ErrUpstream, path, code)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	return nil
}
