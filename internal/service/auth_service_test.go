package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, role model.Role, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, model.Role, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Get(2).(model.Role), args.Error(3)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, tokenStore *MockTokenStore) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(userRepo, jwtService, tokenStore), jwtService
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates a customer account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, _ := newTestAuthService(userRepo, tokenStore)

		userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := svc.Register(context.Background(), "ada@example.com", "password123", "Ada Lovelace")

		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.True(t, user.Active)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, _ := newTestAuthService(userRepo, tokenStore)

		userRepo.On("FindByEmail", mock.Anything, "ada@example.com").
			Return(&model.User{Email: "ada@example.com"}, nil)

		user, err := svc.Register(context.Background(), "ada@example.com", "password123", "Ada Lovelace")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	assert.NoError(t, err)

	activeUser := func() *model.User {
		return &model.User{
			ID:           uuid.New(),
			Name:         "Ada Lovelace",
			Email:        "ada@example.com",
			PasswordHash: string(hashed),
			Role:         model.RoleUser,
			Active:       true,
		}
	}

	t.Run("returns tokens for valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, jwtService := newTestAuthService(userRepo, tokenStore)

		user := activeUser()
		userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
		tokenStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"),
			user.ID, user.Email, user.Role, auth.RefreshTokenExpiry).Return(nil)

		accessToken, refreshToken, gotUser, err := svc.Login(context.Background(), "ada@example.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.ID, gotUser.ID)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, model.RoleUser, claims.Role)
		tokenStore.AssertExpectations(t)
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, _ := newTestAuthService(userRepo, tokenStore)

		userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, _ := newTestAuthService(userRepo, tokenStore)

		userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(activeUser(), nil)

		_, _, _, err := svc.Login(context.Background(), "ada@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects deactivated accounts", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, _ := newTestAuthService(userRepo, tokenStore)

		user := activeUser()
		user.Active = false
		userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)

		_, _, _, err := svc.Login(context.Background(), "ada@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("issues a new access token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, jwtService := newTestAuthService(userRepo, tokenStore)

		userID := uuid.New()
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "ada@example.com", model.RoleUser)
		assert.NoError(t, err)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).
			Return(userID, "ada@example.com", model.RoleUser, nil)

		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.NoError(t, err)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("rejects tokens missing from the store", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, jwtService := newTestAuthService(userRepo, tokenStore)

		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(uuid.New(), "ada@example.com", model.RoleUser)
		assert.NoError(t, err)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).
			Return(uuid.Nil, "", model.Role(""), ErrInvalidRefreshToken)

		_, err = svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc, _ := newTestAuthService(userRepo, tokenStore)

		_, err := svc.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)
	svc, jwtService := newTestAuthService(userRepo, tokenStore)

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(uuid.New(), "ada@example.com", model.RoleUser)
	assert.NoError(t, err)

	tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	tokenStore.AssertExpectations(t)
}
