package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"notemate/internal/auth/config"
	"notemate/internal/auth/domain/model"
	"notemate/internal/auth/domain/repository"
	apperrors "notemate/internal/shared/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = apperrors.ErrEmailTaken
	ErrUserNotFound       = apperrors.ErrUserNotFound
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrTokenInvalid       = apperrors.ErrInvalidToken
	ErrTokenExpired       = apperrors.ErrTokenExpired
	ErrSessionNotFound    = apperrors.ErrSessionNotFound
	ErrSessionExpired     = apperrors.ErrSessionExpired
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrNameTooShort       = errors.New("name must be at least 2 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
)

// Password validation constants
const (
	minPasswordLength = 8
	maxPasswordLength = 128
	minNameLength     = 2
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SessionEventPublisher is the outbound port for session lifecycle auditing.
// Publishing is best-effort; a nil publisher disables it.
type SessionEventPublisher interface {
	Publish(ctx context.Context, event model.SessionEvent) error
}

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Signup(ctx context.Context, req SignupRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	ValidateAccessToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	VerifySession(ctx context.Context, userID, refreshToken string) (*model.User, error)
	NewAccessToken(ctx context.Context, userID string) (string, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
}

// SignupRequest represents the signup request
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the profile update request
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// LoginResult carries the authenticated user together with the freshly issued
// credential pair. RefreshToken is only populated once the session has been
// persisted.
type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo     repository.AuthRepository
	tokenSvc repository.TokenService
	events   SessionEventPublisher
	config   *config.Config
	now      func() time.Time
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.AuthRepository,
	tokenSvc repository.TokenService,
	events SessionEventPublisher,
	cfg *config.Config,
) *AuthUsecase {
	return &AuthUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		events:   events,
		config:   cfg,
		now:      time.Now,
	}
}

// validateEmail validates email format
func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// validatePassword validates password length
func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// Signup creates a new user. It does not create a session; the client logs in
// afterwards to obtain credentials.
func (uc *AuthUsecase) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(req.Name)) < minNameLength {
		return nil, ErrNameTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashedPassword),
		Sessions:     []model.Session{},
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a user and issues a fresh credential pair: a stateless
// access token and a stored refresh session. The refresh secret is reported
// only after the session write succeeds.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, err
	}

	user, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	refreshToken, err := uc.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	accessToken, err := uc.tokenSvc.GenerateAccessToken(ctx, user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	uc.publishEvent(ctx, model.SessionEventLogin, user.ID.Hex())

	user.PasswordHash = ""
	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// createSession generates a refresh secret, persists the session and returns
// the secret. Ordering matters: the secret must not leave this method unless
// the write succeeded.
func (uc *AuthUsecase) createSession(ctx context.Context, user *model.User) (string, error) {
	refreshToken, err := uc.tokenSvc.GenerateRefreshToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := model.Session{
		Token:     refreshToken,
		ExpiresAt: uc.now().Add(uc.config.RefreshTokenTTL).Unix(),
	}

	if err := uc.repo.CreateSession(ctx, user.ID.Hex(), session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	user.Sessions = append(user.Sessions, session)
	return refreshToken, nil
}

// ValidateAccessToken validates an access token string
func (uc *AuthUsecase) ValidateAccessToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	return uc.tokenSvc.ValidateAccessToken(ctx, tokenString)
}

// VerifySession confirms that the presented refresh token belongs to a live
// session of the claimed user. The record is left in place even when expired;
// expiry is enforced here, at check time only.
func (uc *AuthUsecase) VerifySession(ctx context.Context, userID, refreshToken string) (*model.User, error) {
	user, err := uc.repo.FindUserBySessionToken(ctx, userID, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	session, ok := user.SessionByToken(refreshToken)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(uc.now()) {
		return nil, ErrSessionExpired
	}

	return user, nil
}

// NewAccessToken mints a fresh access token for a session-verified user. It
// neither rotates the refresh token nor extends the session expiry.
func (uc *AuthUsecase) NewAccessToken(ctx context.Context, userID string) (string, error) {
	accessToken, err := uc.tokenSvc.GenerateAccessToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	uc.publishEvent(ctx, model.SessionEventRefresh, userID)
	return accessToken, nil
}

// Logout removes the one session matching the presented refresh token.
// Idempotent: logging out an already-removed session succeeds.
func (uc *AuthUsecase) Logout(ctx context.Context, userID, refreshToken string) error {
	if err := uc.repo.DeleteSession(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	uc.publishEvent(ctx, model.SessionEventLogout, userID)
	return nil
}

// UpdateProfile updates the mutable profile fields of the authenticated user.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name != "" && len(name) < minNameLength {
		return nil, ErrNameTooShort
	}
	if email != "" {
		if err := uc.validateEmail(email); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.UpdateUserProfile(ctx, userID, name, email); err != nil {
		return nil, err
	}

	return uc.GetUserByID(ctx, userID)
}

// GetUserByID retrieves a user's public profile by ID
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

// publishEvent emits a session lifecycle event, logging nothing itself: the
// publisher owns failure reporting and the auth flow never fails on it.
func (uc *AuthUsecase) publishEvent(ctx context.Context, eventType model.SessionEventType, userID string) {
	if uc.events == nil {
		return
	}
	_ = uc.events.Publish(ctx, model.SessionEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: uc.now(),
	})
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
