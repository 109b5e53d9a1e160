package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"quizmaster/backend/models"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var (
	ErrGoogleNotConfigured = errors.New("google login is not configured")
	ErrInvalidIDToken      = errors.New("invalid google id token")
	ErrEmailNotVerified    = errors.New("google account email is not verified")
	ErrProviderUnavailable = errors.New("google identity provider unavailable")
)

// GoogleIdentity holds the claims of a verified Google ID token.
type GoogleIdentity struct {
	Email         string
	EmailVerified bool
	Name          string
}

// IdentityVerifier turns a third-party ID token into a verified identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

type payloadValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier checks ID tokens against Google's published signing keys
// and the configured OAuth client id.
type GoogleVerifier struct {
	clientID  string
	validator payloadValidator
}

func NewGoogleVerifier(ctx context.Context, clientID string, httpClient *http.Client) (*GoogleVerifier, error) {
	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &GoogleVerifier{clientID: clientID, validator: v}, nil
}

func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if g.clientID == "" {
		return nil, ErrGoogleNotConfigured
	}

	payload, err := g.validator.Validate(ctx, idToken, g.clientID)
	if err != nil {
		return nil, classifyValidateError(err)
	}

	identity, err := identityFromClaims(payload.Claims)
	if err != nil {
		return nil, err
	}

	// A valid signature is not enough: unverified addresses could belong to
	// someone else.
	if !identity.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return identity, nil
}

func classifyValidateError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "unable to retrieve cert") {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
}

func identityFromClaims(claims map[string]interface{}) (*GoogleIdentity, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidIDToken)
	}

	identity := &GoogleIdentity{
		Email:         email,
		EmailVerified: boolClaim(claims["email_verified"]),
	}

	if name, _ := claims["name"].(string); name != "" {
		identity.Name = name
	} else {
		identity.Name = models.DefaultName(email)
	}

	return identity, nil
}

// Google has sent email_verified both as a JSON bool and as a string.
func boolClaim(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}
