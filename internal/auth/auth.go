package auth

import (
	"fmt"

	authhttp "notemate/internal/auth/adapter/http"
	"notemate/internal/auth/adapter/persistence"
	"notemate/internal/auth/adapter/persistence/mongodb"
	"notemate/internal/auth/adapter/security"
	"notemate/internal/auth/config"
	"notemate/internal/auth/domain/repository"
	"notemate/internal/auth/usecase"
	"notemate/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	repository repository.AuthRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance. redisClient may
// be nil, in which case session lifecycle events are not published.
func NewAuthModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	authRepo, err := mongodb.NewMongoAuthRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth repository: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	var events usecase.SessionEventPublisher
	if redisClient != nil {
		events = persistence.NewRedisSessionEventStore(redisClient, log)
	}

	authUsecase := usecase.NewAuthUsecase(authRepo, tokenSvc, events, cfg)
	handler := authhttp.NewAuthHTTPHandler(authUsecase)

	return &AuthModule{
		repository: authRepo,
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    handler,
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	middleware := am.GetMiddleware()
	am.handler.SetupAuthRoutesWithMiddleware(router, middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return authhttp.NewAuthMiddleware(am.usecase)
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
