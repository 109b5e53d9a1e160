package controllers

import (
	"errors"

	"quizmaster/backend/middleware"
	"quizmaster/backend/store"
	"quizmaster/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Users  *store.UserStore
	Tokens *utils.TokenService
}

func NewUserController(users *store.UserStore, tokens *utils.TokenService) *UserController {
	return &UserController{Users: users, Tokens: tokens}
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitnil,max=255"`
	Email *string `json:"email" validate:"omitnil,email"`
}

type ProfileResponse struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
	// Set only when the email changed; tokens for the old email stop resolving.
	AccessToken string `json:"access_token,omitempty"`
}

// GetProfile godoc
// @Summary Get user profile
// @Tags users
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user, err := uc.Users.GetByEmail(c.UserContext(), middleware.CurrentSubject(c))
	if err != nil {
		return userError(err)
	}
	return c.JSON(ProfileResponse{Email: user.Email, Name: user.Name})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates name and/or email; omitted fields are unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateProfileRequest true "Profile update data"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [patch]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var input UpdateProfileRequest
	verrs, err := utils.ParseBody(c, &input)
	if err != nil {
		return err
	}
	if verrs != nil {
		return utils.ValidationError(c, verrs)
	}

	subject := middleware.CurrentSubject(c)
	user, err := uc.Users.UpdateProfile(c.UserContext(), subject, store.UpdateProfileParams{
		Email: input.Email,
		Name:  input.Name,
	})
	if err != nil {
		return userError(err)
	}

	resp := ProfileResponse{Email: user.Email, Name: user.Name}
	if user.Email != subject {
		if resp.AccessToken, err = uc.Tokens.IssueFor(user.Email); err != nil {
			return err
		}
	}
	return c.JSON(resp)
}

// DeleteAccount godoc
// @Summary Delete account
// @Description Deletes the user and all recorded attempts. Issued tokens stay valid until they expire.
// @Tags users
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [delete]
func (uc *UserController) DeleteAccount(c *fiber.Ctx) error {
	if err := uc.Users.Delete(c.UserContext(), middleware.CurrentSubject(c)); err != nil {
		return userError(err)
	}
	return utils.NoContent(c)
}

func userError(err error) error {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrEmailTaken):
		return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
	default:
		return err
	}
}
