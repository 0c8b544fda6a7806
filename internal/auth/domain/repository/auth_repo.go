package repository

import (
	"context"

	"notemate/internal/auth/domain/model"
)

// AuthRepository defines the interface for authentication data operations
type AuthRepository interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id, name, email string) error

	// Session operations. Sessions live in an embedded array on the user
	// document; append and remove are single atomic updates.
	CreateSession(ctx context.Context, userID string, session model.Session) error
	FindUserBySessionToken(ctx context.Context, userID, token string) (*model.User, error)
	DeleteSession(ctx context.Context, userID, token string) error
}
