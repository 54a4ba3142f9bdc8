package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/services"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := validateStruct(req); msg != "" {
		return badRequest(c, msg)
	}

	if _, err := h.userService.Register(req); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
	})
}

// HandleToken exchanges form credentials for a bearer token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid form")
	}
	if msg := validateStruct(req); msg != "" {
		return badRequest(c, msg)
	}

	token, err := h.userService.Login(req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.userService.Profile(currentUser(c).Username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := validateStruct(req); msg != "" {
		return badRequest(c, msg)
	}

	user, err := h.userService.UpdateProfile(currentUser(c).Username, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
