package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"quizmaster/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(tokens *utils.TokenService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(utils.InitLogger(utils.LoggerConfig{Format: "json", Output: io.Discard})),
	})
	app.Get("/whoami", AuthMiddleware(tokens), func(c *fiber.Ctx) error {
		return c.SendString(CurrentSubject(c))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenService("test-secret", time.Hour)
	app := newProtectedApp(tokens)

	valid, err := tokens.IssueFor("demo@user.com")
	require.NoError(t, err)
	expired, err := tokens.Issue(jwt.MapClaims{"sub": "demo@user.com"}, -time.Minute)
	require.NoError(t, err)
	forged, err := utils.NewTokenService("other-secret", time.Hour).IssueFor("demo@user.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, fiber.StatusOK, "demo@user.com"},
		{"missing header", "", fiber.StatusUnauthorized, ""},
		{"raw token without scheme", valid, fiber.StatusUnauthorized, ""},
		{"expired", "Bearer " + expired, fiber.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + forged, fiber.StatusUnauthorized, ""},
		{"garbage", "Bearer not.a.jwt", fiber.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.wantStatus == fiber.StatusOK {
				assert.Equal(t, tt.wantBody, string(body))
				return
			}

			var errResp utils.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.False(t, errResp.Success)
			assert.Equal(t, "Unauthorized", errResp.Error)
		})
	}
}

func TestCurrentSubjectOutsideMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("[" + CurrentSubject(c) + "]")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", string(body))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := utils.InitLogger(utils.LoggerConfig{Format: "json", Output: &buf})

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logger)})
	app.Use(LoggingMiddleware(logger))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/gone", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "gone") })

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/gone", nil))
	require.NoError(t, err)

	dec := json.NewDecoder(&buf)
	var first, second map[string]interface{}
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "/ok", first["path"])
	assert.Equal(t, float64(200), first["status"])

	assert.Equal(t, "warn", second["level"])
	assert.Equal(t, "/gone", second["path"])
	assert.Equal(t, float64(404), second["status"])
	assert.Equal(t, "gone", second["error"])
}
