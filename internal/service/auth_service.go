package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/internal/auth"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

const bcryptCost = 12

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same error covers unknown email and wrong password so responses
	// never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when trying to sign up an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserGone is returned when a valid token references a deleted user.
	ErrUserGone = errors.New("user no longer exists")
)

// ExternalProfile carries the identity fields received from an OAuth provider.
type ExternalProfile struct {
	ProviderID string
	Name       string
	Email      string
	Picture    string
}

// AuthService handles signup, login and external identity login.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	ExternalLogin(ctx context.Context, profile ExternalProfile) (token string, user *model.User, err error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup registers a new user with a hashed password and returns a bearer token.
func (s *authService) Signup(ctx context.Context, name, email, password string) (string, *model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// Login authenticates a user by password and returns a bearer token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// OAuth-only accounts have no password to check against.
	if user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// ExternalLogin resolves an OAuth profile to a local user: by provider id
// first, then by email (linking the identity onto that account), provisioning
// a new account when neither matches.
func (s *authService) ExternalLogin(ctx context.Context, profile ExternalProfile) (string, *model.User, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, profile.ProviderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("find by provider id: %w", err)
	}

	if user == nil {
		byEmail, err := s.userRepo.FindByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			if err := s.userRepo.LinkExternalIdentity(ctx, byEmail.ID, byEmail.Email, profile.ProviderID, profile.Picture); err != nil {
				return "", nil, fmt.Errorf("link external identity: %w", err)
			}
			byEmail.GoogleID = profile.ProviderID
			byEmail.ProfilePicture = profile.Picture
			user = byEmail
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = &model.User{
				ID:             uuid.New(),
				Name:           profile.Name,
				Email:          profile.Email,
				GoogleID:       profile.ProviderID,
				ProfilePicture: profile.Picture,
			}
			if err := s.userRepo.Create(ctx, user); err != nil {
				return "", nil, fmt.Errorf("create user: %w", err)
			}
		default:
			return "", nil, fmt.Errorf("find by email: %w", err)
		}
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// CurrentUser resolves the user a validated token refers to. A token for a
// deleted user yields ErrUserGone.
func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserGone
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
