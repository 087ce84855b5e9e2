package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelwahab/campuscard-api/internal/domain"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	auth := SetupAuth("unit-test-secret", time.Hour)

	token, err := auth.GenerateToken(42, "student@eng.psu.edu.eg", domain.RoleStudent)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "student@eng.psu.edu.eg", claims.Email)
	assert.Equal(t, domain.RoleStudent, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestVerifyTokenAcceptsBearerPrefix(t *testing.T) {
	auth := SetupAuth("unit-test-secret", time.Hour)
	token, err := auth.GenerateToken(1, "admin@eng.psu.edu.eg", domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := auth.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	auth := SetupAuth("unit-test-secret", time.Hour)
	token, err := auth.GenerateToken(1, "student@eng.psu.edu.eg", domain.RoleStudent)
	require.NoError(t, err)

	other := SetupAuth("different-secret", time.Hour)
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	auth := SetupAuth("unit-test-secret", -time.Hour)
	// SetupAuth clamps non-positive expiry to the default, so sign an
	// already-expired token directly.
	auth.Expiry = -time.Hour
	token, err := auth.GenerateToken(1, "student@eng.psu.edu.eg", domain.RoleStudent)
	require.NoError(t, err)

	_, err = auth.VerifyToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenRequiresInputs(t *testing.T) {
	auth := SetupAuth("unit-test-secret", time.Hour)

	_, err := auth.GenerateToken(0, "student@eng.psu.edu.eg", domain.RoleStudent)
	assert.Error(t, err)

	_, err = auth.GenerateToken(1, "", domain.RoleStudent)
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	auth := SetupAuth("unit-test-secret", time.Hour)

	hashed, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hashed)

	assert.NoError(t, auth.VerifyPassword("correct-horse", hashed))
	assert.Error(t, auth.VerifyPassword("wrong", hashed))
}
