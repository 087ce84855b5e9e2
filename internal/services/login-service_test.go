package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper"
)

func loginFixture(t *testing.T) (*fakeUserRepo, helper.Auth, LoginService) {
	t.Helper()
	repo := newFakeUserRepo()
	auth := helper.SetupAuth("test-secret", time.Hour)

	hashed, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	repo.add(domain.User{
		ID:         1,
		Email:      "student@eng.psu.edu.eg",
		Password:   hashed,
		NationalID: "29801010212345",
		Role:       domain.RoleStudent,
		Status:     domain.StatusPending,
	})

	return repo, auth, NewLoginService(repo, auth)
}

func TestLoginWithEmail(t *testing.T) {
	_, auth, svc := loginFixture(t)

	resp, err := svc.Login(dto.LoginRequest{
		Identifier: "student@eng.psu.edu.eg",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "student", resp.Role)
	assert.Equal(t, "pending", resp.Status)

	claims, err := auth.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "student@eng.psu.edu.eg", claims.Email)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestLoginWithNationalID(t *testing.T) {
	_, _, svc := loginFixture(t)

	resp, err := svc.Login(dto.LoginRequest{
		Identifier: "29801010212345",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), resp.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	_, _, svc := loginFixture(t)

	_, unknownErr := svc.Login(dto.LoginRequest{
		Identifier: "nobody@eng.psu.edu.eg",
		Password:   "correct-horse",
	})
	_, wrongPassErr := svc.Login(dto.LoginRequest{
		Identifier: "student@eng.psu.edu.eg",
		Password:   "wrong",
	})

	unknownAppErr, ok := apperr.From(unknownErr)
	require.True(t, ok)
	wrongPassAppErr, ok := apperr.From(wrongPassErr)
	require.True(t, ok)

	assert.Equal(t, unknownAppErr.Message, wrongPassAppErr.Message)
	assert.Equal(t, 401, unknownAppErr.Status)
	assert.Equal(t, 401, wrongPassAppErr.Status)
}

func TestLoginAllowedForAnyStatus(t *testing.T) {
	repo, _, svc := loginFixture(t)
	repo.users[1].Status = domain.StatusRejected

	resp, err := svc.Login(dto.LoginRequest{
		Identifier: "student@eng.psu.edu.eg",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
}
