package service

import (
	"context"
	"testing"
	"time"

	"github.com/evently-app/evently/internal/auth"
	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*fakeDB, *AuthService, *auth.JWTManager) {
	t.Helper()
	db := newFakeDB()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, "evently-test")
	svc := NewAuthService(&fakeUsers{db}, jwtManager, zerolog.Nop())
	return db, svc, jwtManager
}

// testHash hashes at the minimum cost to keep the suite fast.
func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestSignupStudent(t *testing.T) {
	db, svc, _ := newAuthFixture(t)

	user, err := svc.SignupStudent(context.Background(), model.SignupRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "Asha.Rao@Campus.EDU",
		Password:  "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, "asha.rao@campus.edu", user.Email)

	// Stored hash must verify against the plaintext.
	account := db.byEmail["asha.rao@campus.edu"]
	require.NotNil(t, account)
	assert.True(t, auth.CheckPassword(account.PasswordHash, "correct horse"))

	_, err = svc.SignupStudent(context.Background(), model.SignupRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha.rao@campus.edu",
		Password:  "another pass",
	})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	db, svc, jwtManager := newAuthFixture(t)
	hash := testHash(t, "secret-pass")
	student := db.addUser(model.RoleStudent, "s@campus.edu", hash, nil)

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "S@Campus.EDU",
		Password: "secret-pass",
	}, model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, student.ID, resp.UserID)
	assert.Equal(t, model.RoleStudent, resp.Role)
	assert.Contains(t, resp.Message, student.FirstName)

	claims, err := jwtManager.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, student.ID, claims.Subject)
	assert.Equal(t, model.RoleStudent, claims.Role)
}

func TestLoginFailures(t *testing.T) {
	db, svc, _ := newAuthFixture(t)
	hash := testHash(t, "secret-pass")
	db.addUser(model.RoleStudent, "s@campus.edu", hash, nil)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@campus.edu",
		Password: "secret-pass",
	}, model.RoleStudent)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "s@campus.edu",
		Password: "wrong-pass",
	}, model.RoleStudent)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// A student cannot log in through the admin door.
	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "s@campus.edu",
		Password: "secret-pass",
	}, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestLoginClubMember(t *testing.T) {
	db, svc, jwtManager := newAuthFixture(t)
	hash := testHash(t, "secret-pass")
	clubID := "club-1"
	member := db.addUser(model.RoleClubMember, "m@campus.edu", hash, &clubID)
	db.addUser(model.RoleClubMember, "orphan@campus.edu", hash, nil)

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "m@campus.edu",
		Password: "secret-pass",
	}, model.RoleClubMember)
	require.NoError(t, err)
	require.NotNil(t, resp.ClubID)
	assert.Equal(t, clubID, *resp.ClubID)

	claims, err := jwtManager.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, claims.Subject)
	assert.Equal(t, clubID, claims.ClubID)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "orphan@campus.edu",
		Password: "secret-pass",
	}, model.RoleClubMember)
	assert.ErrorIs(t, err, ErrNoClubMembership)
}
