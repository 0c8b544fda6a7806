package http

import (
	"errors"

	"notemate/internal/auth/usecase"
	apperrors "notemate/internal/shared/errors"
	"notemate/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase: uc,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with the guards
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	// Public routes, rate limited: signup and login are the only endpoints an
	// unauthenticated caller can hammer. One limiter instance so both routes
	// share the same per-IP window.
	rateLimit := middleware.RateLimiter()
	router.Post("/users", rateLimit, h.Signup)
	router.Post("/users/login", rateLimit, h.Login)

	// Session-guarded routes: these are the only two operations requiring
	// proof of an unexpired refresh session.
	router.Get("/users/me/access-token", middleware.VerifySession(), h.NewAccessToken)
	router.Delete("/users/me/session", middleware.VerifySession(), h.Logout)

	// Access-guarded routes
	router.Patch("/users/me", middleware.Authenticate(), h.UpdateProfile)
}

// Signup handles user registration. No session is created; the client logs in
// afterwards.
func (h *AuthHTTPHandler) Signup(c *fiber.Ctx) error {
	var req usecase.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.usecase.Signup(c.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user login. Both credentials travel in response headers; the
// body carries the public profile only.
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(HeaderRefreshToken, result.RefreshToken)
	c.Set(HeaderAccessToken, result.AccessToken)

	return c.JSON(result.User)
}

// NewAccessToken mints a fresh access credential for a session-verified
// caller. The token rides the x-access-token response header; the body is
// empty.
func (h *AuthHTTPHandler) NewAccessToken(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	accessToken, err := h.usecase.NewAccessToken(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(HeaderAccessToken, accessToken)
	return c.SendStatus(fiber.StatusOK)
}

// Logout removes the presented session from the store.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	refreshToken, err := utils.GetSessionTokenFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if err := h.usecase.Logout(c.Context(), userID, refreshToken); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// UpdateProfile updates the authenticated user's profile fields
func (h *AuthHTTPHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req usecase.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.usecase.UpdateProfile(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(user)
}
