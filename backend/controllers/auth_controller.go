package controllers

import (
	"errors"

	"quizmaster/backend/models"
	"quizmaster/backend/providers"
	"quizmaster/backend/store"
	"quizmaster/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type AuthController struct {
	Users  *store.UserStore
	Tokens *utils.TokenService
	Hasher *utils.PasswordHasher
	Google providers.IdentityVerifier
	Logger zerolog.Logger
}

func NewAuthController(
	users *store.UserStore,
	tokens *utils.TokenService,
	hasher *utils.PasswordHasher,
	google providers.IdentityVerifier,
	logger zerolog.Logger,
) *AuthController {
	return &AuthController{Users: users, Tokens: tokens, Hasher: hasher, Google: google, Logger: logger}
}

// CredentialsRequest treats email as an opaque identifier; it is not checked
// for address syntax.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Registration data"
// @Success 200 {object} utils.TokenResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input CredentialsRequest
	verrs, err := utils.ParseBody(c, &input)
	if err != nil {
		return err
	}
	if verrs != nil {
		return utils.ValidationError(c, verrs)
	}

	hash, err := ac.Hasher.Hash(input.Password)
	if err != nil {
		return err
	}

	name := models.DefaultName(input.Email)
	user := models.User{Email: input.Email, PasswordHash: hash, Name: &name}
	if err := ac.Users.Create(c.UserContext(), &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
		}
		return err
	}

	return ac.respondWithToken(c, user.Email)
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Login credentials"
// @Success 200 {object} utils.TokenResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input CredentialsRequest
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}

	// Same answer for unknown emails and wrong passwords.
	invalid := fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")

	user, err := ac.Users.GetByEmail(c.UserContext(), input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return invalid
		}
		return err
	}

	if !ac.Hasher.Check(input.Password, user.PasswordHash) {
		return invalid
	}

	return ac.respondWithToken(c, user.Email)
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Exchanges a Google ID token for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleLoginRequest true "Google ID token"
// @Success 200 {object} utils.TokenResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /auth/google [post]
func (ac *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var input GoogleLoginRequest
	verrs, err := utils.ParseBody(c, &input)
	if err != nil {
		return err
	}
	if verrs != nil {
		return utils.ValidationError(c, verrs)
	}

	identity, err := ac.Google.Verify(c.UserContext(), input.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrEmailNotVerified):
			return fiber.NewError(fiber.StatusUnauthorized, "Google email not verified")
		case errors.Is(err, providers.ErrInvalidIDToken):
			ac.Logger.Debug().Err(err).Msg("google id token rejected")
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid Google token")
		case errors.Is(err, providers.ErrProviderUnavailable):
			return fiber.NewError(fiber.StatusBadGateway, "Google verification failed: "+err.Error())
		default:
			return err
		}
	}

	user, created, err := ac.Users.UpsertGoogleUser(c.UserContext(), identity.Email, identity.Name)
	if err != nil {
		return err
	}
	if created {
		ac.Logger.Info().Uint("user_id", user.ID).Msg("created user from google login")
	}

	return ac.respondWithToken(c, user.Email)
}

func (ac *AuthController) respondWithToken(c *fiber.Ctx, email string) error {
	token, err := ac.Tokens.IssueFor(email)
	if err != nil {
		return err
	}
	return utils.Token(c, token)
}
