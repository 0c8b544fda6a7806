package usecase

import (
	"context"
	"testing"
	"time"

	"notemate/internal/auth/config"
	"notemate/internal/auth/domain/model"
	"notemate/internal/auth/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// MockAuthRepository is a mock implementation of repository.AuthRepository
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAuthRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthRepository) UpdateUserProfile(ctx context.Context, id, name, email string) error {
	args := m.Called(ctx, id, name, email)
	return args.Error(0)
}

func (m *MockAuthRepository) CreateSession(ctx context.Context, userID string, session model.Session) error {
	args := m.Called(ctx, userID, session)
	return args.Error(0)
}

func (m *MockAuthRepository) FindUserBySessionToken(ctx context.Context, userID, token string) (*model.User, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthRepository) DeleteSession(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// MockTokenService is a mock implementation of repository.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

func (m *MockTokenService) GenerateRefreshToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of SessionEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event model.SessionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type AuthUsecaseTestSuite struct {
	suite.Suite
	repo     *MockAuthRepository
	tokenSvc *MockTokenService
	events   *MockEventPublisher
	usecase  *AuthUsecase

	now    time.Time
	userID primitive.ObjectID
}

func (suite *AuthUsecaseTestSuite) SetupTest() {
	suite.repo = new(MockAuthRepository)
	suite.tokenSvc = new(MockTokenService)
	suite.events = new(MockEventPublisher)

	cfg := &config.Config{
		JWTSecretKey:    "test-secret",
		JWTIssuer:       "notemate-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 240 * time.Hour,
	}

	suite.usecase = NewAuthUsecase(suite.repo, suite.tokenSvc, suite.events, cfg)

	// Pin the clock so expiry arithmetic is deterministic.
	suite.now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	suite.usecase.now = func() time.Time { return suite.now }

	suite.userID = primitive.NewObjectID()
}

func (suite *AuthUsecaseTestSuite) userWithPassword(password string) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(suite.T(), err)
	return &model.User{
		ID:           suite.userID,
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: string(hash),
		Sessions:     []model.Session{},
	}
}

// Signup

func (suite *AuthUsecaseTestSuite) TestSignup_Success() {
	suite.repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com" && u.Name == "New User" && u.PasswordHash != "password123"
	})).Return(nil)

	user, err := suite.usecase.Signup(context.Background(), SignupRequest{
		Name:     "  New User  ",
		Email:    "New@Example.com",
		Password: "password123",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New User", user.Name)
	assert.Equal(suite.T(), "new@example.com", user.Email)
	assert.Empty(suite.T(), user.PasswordHash)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestSignup_EmailTaken() {
	suite.repo.On("CreateUser", mock.Anything, mock.Anything).Return(ErrEmailTaken)

	user, err := suite.usecase.Signup(context.Background(), SignupRequest{
		Name:     "New User",
		Email:    "taken@example.com",
		Password: "password123",
	})

	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

func (suite *AuthUsecaseTestSuite) TestSignup_Validation() {
	testCases := []struct {
		name    string
		req     SignupRequest
		wantErr error
	}{
		{"bad email", SignupRequest{Name: "User", Email: "not-an-email", Password: "password123"}, ErrInvalidEmailFormat},
		{"short password", SignupRequest{Name: "User", Email: "a@b.com", Password: "short"}, ErrPasswordTooShort},
		{"short name", SignupRequest{Name: "X", Email: "a@b.com", Password: "password123"}, ErrNameTooShort},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			user, err := suite.usecase.Signup(context.Background(), tc.req)
			assert.Nil(suite.T(), user)
			assert.ErrorIs(suite.T(), err, tc.wantErr)
		})
	}

	// Validation failures must never reach the store.
	suite.repo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
}

// Login

func (suite *AuthUsecaseTestSuite) TestLogin_IssuesCredentialPair() {
	user := suite.userWithPassword("password123")

	suite.repo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(user, nil)
	suite.tokenSvc.On("GenerateRefreshToken").Return("refresh-secret", nil)
	suite.repo.On("CreateSession", mock.Anything, suite.userID.Hex(), mock.MatchedBy(func(s model.Session) bool {
		// 10-day expiry, anchored at the pinned clock.
		return s.Token == "refresh-secret" && s.ExpiresAt == suite.now.Add(240*time.Hour).Unix()
	})).Return(nil)
	suite.tokenSvc.On("GenerateAccessToken", mock.Anything, suite.userID.Hex()).Return("access-token", nil)
	suite.events.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SessionEvent) bool {
		return e.Type == model.SessionEventLogin && e.UserID == suite.userID.Hex()
	})).Return(nil)

	result, err := suite.usecase.Login(context.Background(), LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "access-token", result.AccessToken)
	assert.Equal(suite.T(), "refresh-secret", result.RefreshToken)
	assert.Empty(suite.T(), result.User.PasswordHash)
	suite.repo.AssertExpectations(suite.T())
	suite.tokenSvc.AssertExpectations(suite.T())
	suite.events.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestLogin_WrongPassword() {
	user := suite.userWithPassword("password123")
	suite.repo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(user, nil)

	result, err := suite.usecase.Login(context.Background(), LoginRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	})

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	suite.repo.AssertNotCalled(suite.T(), "CreateSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestLogin_UnknownEmailIsIndistinguishable() {
	suite.repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)

	result, err := suite.usecase.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthUsecaseTestSuite) TestLogin_SessionWriteFailureWithholdsTokens() {
	user := suite.userWithPassword("password123")

	suite.repo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(user, nil)
	suite.tokenSvc.On("GenerateRefreshToken").Return("refresh-secret", nil)
	suite.repo.On("CreateSession", mock.Anything, suite.userID.Hex(), mock.Anything).
		Return(assert.AnError)

	result, err := suite.usecase.Login(context.Background(), LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Nil(suite.T(), result)
	assert.Error(suite.T(), err)
	// No access token is minted when the session never persisted.
	suite.tokenSvc.AssertNotCalled(suite.T(), "GenerateAccessToken", mock.Anything, mock.Anything)
	suite.events.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

// VerifySession

func (suite *AuthUsecaseTestSuite) TestVerifySession_LiveSession() {
	user := suite.userWithPassword("password123")
	user.Sessions = []model.Session{{
		Token:     "refresh-secret",
		ExpiresAt: suite.now.Add(time.Hour).Unix(),
	}}

	suite.repo.On("FindUserBySessionToken", mock.Anything, suite.userID.Hex(), "refresh-secret").Return(user, nil)

	got, err := suite.usecase.VerifySession(context.Background(), suite.userID.Hex(), "refresh-secret")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.userID, got.ID)
}

func (suite *AuthUsecaseTestSuite) TestVerifySession_ExpiredSessionRejectedButKept() {
	user := suite.userWithPassword("password123")
	user.Sessions = []model.Session{{
		Token:     "refresh-secret",
		ExpiresAt: suite.now.Add(-time.Second).Unix(),
	}}

	suite.repo.On("FindUserBySessionToken", mock.Anything, suite.userID.Hex(), "refresh-secret").Return(user, nil)

	got, err := suite.usecase.VerifySession(context.Background(), suite.userID.Hex(), "refresh-secret")

	assert.Nil(suite.T(), got)
	assert.ErrorIs(suite.T(), err, ErrSessionExpired)
	// Expiry is enforced at check time only; nothing is purged.
	suite.repo.AssertNotCalled(suite.T(), "DeleteSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestVerifySession_ExpiryBoundaryIsExclusive() {
	user := suite.userWithPassword("password123")
	user.Sessions = []model.Session{{
		Token:     "refresh-secret",
		ExpiresAt: suite.now.Unix(),
	}}

	suite.repo.On("FindUserBySessionToken", mock.Anything, suite.userID.Hex(), "refresh-secret").Return(user, nil)

	// A session expiring exactly now is already expired.
	got, err := suite.usecase.VerifySession(context.Background(), suite.userID.Hex(), "refresh-secret")

	assert.Nil(suite.T(), got)
	assert.ErrorIs(suite.T(), err, ErrSessionExpired)
}

func (suite *AuthUsecaseTestSuite) TestVerifySession_UnknownToken() {
	suite.repo.On("FindUserBySessionToken", mock.Anything, suite.userID.Hex(), "no-such-token").
		Return(nil, ErrSessionNotFound)

	got, err := suite.usecase.VerifySession(context.Background(), suite.userID.Hex(), "no-such-token")

	assert.Nil(suite.T(), got)
	assert.ErrorIs(suite.T(), err, ErrSessionNotFound)
}

// NewAccessToken

func (suite *AuthUsecaseTestSuite) TestNewAccessToken_MintsWithoutTouchingSession() {
	suite.tokenSvc.On("GenerateAccessToken", mock.Anything, suite.userID.Hex()).Return("fresh-access", nil)
	suite.events.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SessionEvent) bool {
		return e.Type == model.SessionEventRefresh
	})).Return(nil)

	token, err := suite.usecase.NewAccessToken(context.Background(), suite.userID.Hex())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "fresh-access", token)
	// No rotation, no expiry extension: the store is never written.
	suite.repo.AssertNotCalled(suite.T(), "CreateSession", mock.Anything, mock.Anything, mock.Anything)
	suite.tokenSvc.AssertNotCalled(suite.T(), "GenerateRefreshToken")
}

// Logout

func (suite *AuthUsecaseTestSuite) TestLogout_RemovesSession() {
	suite.repo.On("DeleteSession", mock.Anything, suite.userID.Hex(), "refresh-secret").Return(nil)
	suite.events.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SessionEvent) bool {
		return e.Type == model.SessionEventLogout
	})).Return(nil)

	err := suite.usecase.Logout(context.Background(), suite.userID.Hex(), "refresh-secret")

	require.NoError(suite.T(), err)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestLogout_AlreadyRemovedIsStillSuccess() {
	// The repository treats a missing session as a no-op delete.
	suite.repo.On("DeleteSession", mock.Anything, suite.userID.Hex(), "gone-token").Return(nil)
	suite.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	err := suite.usecase.Logout(context.Background(), suite.userID.Hex(), "gone-token")

	assert.NoError(suite.T(), err)
}

// Event publishing

func (suite *AuthUsecaseTestSuite) TestPublisherFailureDoesNotFailAuth() {
	suite.repo.On("DeleteSession", mock.Anything, suite.userID.Hex(), "refresh-secret").Return(nil)
	suite.events.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError)

	err := suite.usecase.Logout(context.Background(), suite.userID.Hex(), "refresh-secret")

	assert.NoError(suite.T(), err)
}

func (suite *AuthUsecaseTestSuite) TestNilPublisherIsFine() {
	uc := NewAuthUsecase(suite.repo, suite.tokenSvc, nil, suite.usecase.config)
	suite.repo.On("DeleteSession", mock.Anything, suite.userID.Hex(), "refresh-secret").Return(nil)

	err := uc.Logout(context.Background(), suite.userID.Hex(), "refresh-secret")

	assert.NoError(suite.T(), err)
}

// UpdateProfile

func (suite *AuthUsecaseTestSuite) TestUpdateProfile_Success() {
	updated := suite.userWithPassword("password123")
	updated.Name = "Renamed"

	suite.repo.On("UpdateUserProfile", mock.Anything, suite.userID.Hex(), "Renamed", "").Return(nil)
	suite.repo.On("GetUserByID", mock.Anything, suite.userID.Hex()).Return(updated, nil)

	user, err := suite.usecase.UpdateProfile(context.Background(), suite.userID.Hex(), UpdateProfileRequest{
		Name: " Renamed ",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Renamed", user.Name)
	assert.Empty(suite.T(), user.PasswordHash)
}

func (suite *AuthUsecaseTestSuite) TestUpdateProfile_RejectsBadEmail() {
	user, err := suite.usecase.UpdateProfile(context.Background(), suite.userID.Hex(), UpdateProfileRequest{
		Email: "not-an-email",
	})

	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, ErrInvalidEmailFormat)
	suite.repo.AssertNotCalled(suite.T(), "UpdateUserProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}
