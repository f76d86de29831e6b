package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/internal/auth"
	"inkwell/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
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

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) LinkExternalIdentity(ctx context.Context, id uuid.UUID, email, googleID, picture string) error {
	args := m.Called(ctx, id, email, googleID, picture)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", 0)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		userName      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful signup",
			userName: "Test User",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already registered",
			userName: "Existing User",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newTestJWTService())
			token, user, err := service.Signup(context.Background(), tt.userName, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.userName, user.Name)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					Name:         "Test User",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "not-the-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "oauth-only account has no password",
			email:    "oauth@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "oauth@example.com").Return(&model.User{
					ID:       uuid.New(),
					Email:    "oauth@example.com",
					GoogleID: "google-123",
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newTestJWTService())
			token, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ExternalLogin(t *testing.T) {
	profile := ExternalProfile{
		ProviderID: "google-123",
		Name:       "Google User",
		Email:      "google@example.com",
		Picture:    "https://example.com/pic.jpg",
	}

	t.Run("existing user by provider id", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		existing := &model.User{
			ID:       uuid.New(),
			Name:     "Google User",
			Email:    "google@example.com",
			GoogleID: "google-123",
		}
		mockRepo.On("FindByGoogleID", mock.Anything, "google-123").Return(existing, nil)

		service := NewAuthService(mockRepo, newTestJWTService())
		token, user, err := service.ExternalLogin(context.Background(), profile)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, existing.ID, user.ID)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "Create")
		mockRepo.AssertNotCalled(t, "LinkExternalIdentity")
	})

	t.Run("links identity onto account matched by email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		existing := &model.User{
			ID:    uuid.New(),
			Name:  "Local User",
			Email: "google@example.com",
		}
		mockRepo.On("FindByGoogleID", mock.Anything, "google-123").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("FindByEmail", mock.Anything, "google@example.com").Return(existing, nil)
		mockRepo.On("LinkExternalIdentity", mock.Anything, existing.ID, existing.Email, "google-123", profile.Picture).Return(nil)

		service := NewAuthService(mockRepo, newTestJWTService())
		token, user, err := service.ExternalLogin(context.Background(), profile)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, existing.ID, user.ID)
		assert.Equal(t, "google-123", user.GoogleID)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("provisions a new user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByGoogleID", mock.Anything, "google-123").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("FindByEmail", mock.Anything, "google@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := NewAuthService(mockRepo, newTestJWTService())
		token, user, err := service.ExternalLogin(context.Background(), profile)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, profile.Email, user.Email)
		assert.Equal(t, profile.ProviderID, user.GoogleID)
		assert.Empty(t, user.PasswordHash)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Run("resolves a live user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		id := uuid.New()
		mockRepo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id}, nil)

		service := NewAuthService(mockRepo, newTestJWTService())
		user, err := service.CurrentUser(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id, user.ID)
	})

	t.Run("rejects a token for a deleted user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		id := uuid.New()
		mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		service := NewAuthService(mockRepo, newTestJWTService())
		user, err := service.CurrentUser(context.Background(), id)

		assert.ErrorIs(t, err, ErrUserGone)
		assert.Nil(t, user)
	})
}
