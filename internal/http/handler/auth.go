package handler

import (
	"github.com/gofiber/fiber/v2"

	"docqa/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// Register creates an account and returns it with a signed token.
//
//	@Summary  Register an account
//	@Tags     auth
//	@Accept   json
//	@Success  201  {object}  authResponse
//	@Router   /register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, token, err := svc.Register(c.UserContext(), service.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(authResponse{User: user, Token: token})
	}
}

// Login verifies credentials and returns the user with a signed token.
//
//	@Summary  Log in
//	@Tags     auth
//	@Accept   json
//	@Success  200  {object}  authResponse
//	@Router   /login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, token, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(authResponse{User: user, Token: token})
	}
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its copy; nothing is revoked server-side.
//
//	@Summary  Log out
//	@Tags     auth
//	@Success  200  {object}  map[string]string
//	@Router   /logout [get]
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "logged out"})
	}
}
