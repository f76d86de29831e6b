package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service := NewJWTService("test-secret", 0)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "Test User", "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "test@example.com", claims.Email)

	subject, err := claims.SubjectID()
	assert.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	service := NewJWTService("test-secret", time.Nanosecond)

	token, err := service.GenerateToken(uuid.New(), "Test User", "test@example.com")
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	claims, err := service.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	service := NewJWTService("test-secret", 0)
	other := NewJWTService("other-secret", 0)

	token, err := service.GenerateToken(uuid.New(), "Test User", "test@example.com")
	assert.NoError(t, err)

	claims, err := other.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	service := NewJWTService("test-secret", 0)

	claims, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
