package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// TokenType is reported next to every issued access token.
const TokenType = "bearer"

var ErrInvalidToken = errors.New("invalid token")

// TokenService mints and checks HS256 access tokens. Tokens carry the user's
// email as "sub" and cannot be revoked before "exp".
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a copy of claims with "iat" and an absolute "exp" added.
func (s *TokenService) Issue(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := time.Now()

	signed := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		signed[k] = v
	}
	signed["iat"] = now.Unix()
	signed["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signed)
	return token.SignedString(s.secret)
}

// IssueFor issues a token for subject with the configured lifetime.
func (s *TokenService) IssueFor(subject string) (string, error) {
	return s.Issue(jwt.MapClaims{"sub": subject}, s.ttl)
}

// Verify checks signature and expiry and returns the "sub" claim. Every
// failure wraps ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	// MapClaims.Valid accepts tokens without "exp".
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return "", fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return subject, nil
}

// BearerToken extracts the credential from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid authentication scheme")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	return token, nil
}
