package di

import (
	"context"
	"fmt"
	"sync"

	"notemate/internal/auth"
	"notemate/internal/auth/config"
	"notemate/internal/notes"
	"notemate/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container wires the application modules together and owns their lifecycle.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule  *auth.AuthModule
	NotesModule *notes.NotesModule

	// Connections
	MongoDB     *mongo.Database
	RedisClient *redis.Client

	// Configuration
	AuthConfig *config.Config

	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	return &Container{
		Logger: log,
	}
}

// InitializeAuth initializes the authentication module. redisClient may be
// nil when no event stream is configured.
func (c *Container) InitializeAuth(mongoDB *mongo.Database, redisClient *redis.Client, authConfig *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.RedisClient = redisClient
	c.AuthConfig = authConfig

	authModule, err := auth.NewAuthModule(mongoDB, redisClient, authConfig, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeNotes initializes the notes module. The auth module must exist
// first: note routes sit behind its authentication guard.
func (c *Container) InitializeNotes() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return fmt.Errorf("auth module must be initialized before notes module")
	}
	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before notes module")
	}

	notesModule, err := notes.NewNotesModule(c.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to create notes module: %w", err)
	}

	c.NotesModule = notesModule
	return nil
}

// GetAuthModule returns the auth module
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetNotesModule returns the notes module
func (c *Container) GetNotesModule() *notes.NotesModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotesModule
}

// HealthCheck verifies that all backing services are reachable
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB not initialized")
	}
	if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}

	return nil
}

// Close releases resources held by the container
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil {
			return err
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return err
		}
	}

	return nil
}
