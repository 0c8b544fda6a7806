package http

import (
	"context"
	"time"

	"notemate/internal/auth/usecase"
	"notemate/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Header names of the credential protocol. The access token rides on every
// protected call; the refresh token and user id appear only on the two
// session-guarded endpoints.
const (
	HeaderAccessToken  = "x-access-token"
	HeaderRefreshToken = "x-refresh-token"
	HeaderUserID       = "_id"
)

// AuthMiddleware provides the request guards for Fiber
type AuthMiddleware struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface) *AuthMiddleware {
	return &AuthMiddleware{
		usecase: uc,
	}
}

// CORS middleware. The credential headers must be exposed or a browser client
// cannot read the tokens off login and refresh responses.
func (m *AuthMiddleware) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + HeaderAccessToken + "," + HeaderRefreshToken + "," + HeaderUserID,
		ExposeHeaders: HeaderAccessToken + "," + HeaderRefreshToken,
	})
}

// RateLimiter creates rate limiting middleware for auth endpoints
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,              // 10 requests
		Expiration:        1 * time.Minute, // per minute
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
		Generator: func() string {
			return uuid.New().String()
		},
	})
}

// Authenticate returns the access-credential guard. It verifies the signed
// access token on its own, with no store round-trip, and attaches the verified
// user id to the request context. Any verification failure is a 401; the
// handler never runs.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(HeaderAccessToken)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := m.usecase.ValidateAccessToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// VerifySession returns the refresh-credential guard, used only by the
// access-token minting and logout endpoints. It proves against the store that
// the presented session is still live, then attaches the user object, its id
// and the presented refresh token to the request context.
func (m *AuthMiddleware) VerifySession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		refreshToken := c.Get(HeaderRefreshToken)
		userID := c.Get(HeaderUserID)
		if refreshToken == "" || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Refresh token and user id required",
			})
		}

		user, err := m.usecase.VerifySession(c.Context(), userID, refreshToken)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Refresh token has expired or the session is invalid",
			})
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, user.ID.Hex())
		ctx = context.WithValue(ctx, contextkeys.UserKey, user)
		ctx = context.WithValue(ctx, contextkeys.SessionTokenKey, refreshToken)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
