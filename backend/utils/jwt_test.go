package utils

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret", time.Hour)

	tok, err := tokens.IssueFor("demo@user.com")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(tok, "."))

	subject, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "demo@user.com", subject)
}

func TestIssueKeepsExtraClaims(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret", time.Hour)
	tok, err := tokens.Issue(jwt.MapClaims{"sub": "a@b.c", "scope": "quiz"}, time.Minute)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)

	assert.Equal(t, "quiz", claims["scope"])
	assert.Contains(t, claims, "exp")
	assert.Contains(t, claims, "iat")
}

func TestIssueDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret", time.Hour)
	claims := jwt.MapClaims{"sub": "a@b.c"}
	_, err := tokens.Issue(claims, time.Minute)
	require.NoError(t, err)

	assert.Len(t, claims, 1)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("secret", time.Hour)
	tok, err := tokens.Issue(jwt.MapClaims{"sub": "u1@example.com"}, -time.Minute)
	require.NoError(t, err)

	_, err = tokens.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService("right-secret", time.Hour).IssueFor("u2@example.com")
	require.NoError(t, err)

	_, err = NewTokenService("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("k", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "onlyonepart", "a.b"} {
		_, err := tokens.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u@example.com"})
	tok, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenService("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("k", time.Hour)
	tok, err := tokens.Issue(jwt.MapClaims{"user_id": 7}, time.Hour)
	require.NoError(t, err)

	_, err = tokens.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{"sub": "u@example.com", "exp": time.Now().Add(time.Hour).Unix()}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tokens := NewTokenService("k", time.Hour)
	for _, tok := range []string{hs512, none} {
		_, err := tokens.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing", "", "", true},
		{"no scheme", "abc.def.ghi", "", true},
		{"basic scheme", "Basic dXNlcjpwdw==", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				tok, err := BearerToken(c)
				if err != nil {
					return err
				}
				return c.SendString(tok)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			if tt.wantErr {
				assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
				return
			}
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
