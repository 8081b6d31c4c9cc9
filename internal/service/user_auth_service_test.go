package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) *UserAuthService {
	cfg := config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1, Issuer: "elwarcha-test"}
	return NewUserAuthService(cfg, f.userRepo, models.NewRetryPolicy(0, time.Millisecond))
}

func requestWithAuthorization(header string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/me", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)
	ctx := context.Background()

	registered, err := auth.Register(ctx, RegisterInput{Name: "Amina", Email: " Amina@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", registered.User.Email)
	assert.Equal(t, constants.RoleCustomer, registered.User.Role)
	assert.NotEmpty(t, registered.Token)

	_, err = auth.Register(ctx, RegisterInput{Name: "Autre", Email: "amina@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = auth.Register(ctx, RegisterInput{Name: "A", Email: "bad", Password: "123"})
	require.ErrorIs(t, err, ErrValidation)
	fields := FieldErrorsOf(err)
	assert.Equal(t, []string{"Mot de passe trop court (min 6 caractères)"}, fields["password"])
	assert.Equal(t, []string{"Email invalide"}, fields["email"])

	loggedIn, err := auth.Login(ctx, LoginInput{Email: "AMINA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotNil(t, loggedIn.User.LastLoginAt)

	_, err = auth.Login(ctx, LoginInput{Email: "amina@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := auth.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amina", me.Name)
	_, err = auth.Me(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIdentifyReadsBearerToken(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)
	user := f.seedUser(t, "admin@elwarcha.ma", constants.RoleAdmin)
	token, _, err := auth.GenerateUserJWT(user)
	require.NoError(t, err)

	id, err := auth.Identify(requestWithAuthorization("Bearer " + token))
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, user.ID, id.UserID)
	assert.True(t, id.IsAdmin())

	id, err = auth.Identify(requestWithAuthorization(""))
	assert.NoError(t, err)
	assert.Nil(t, id)

	_, err = auth.Identify(requestWithAuthorization("Basic abc"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Identify(requestWithAuthorization("Bearer not.a.token"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewUserAuthService(config.JWTConfig{SecretKey: "other-secret"}, f.userRepo, models.NewRetryPolicy(0, time.Millisecond))
	_, err = other.ParseUserJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := auth.GenerateUserJWT(&models.User{ID: 3, Email: "a@example.com", Role: constants.RoleCustomer})
	require.NoError(t, err)

	auth.now = time.Now
	_, err = auth.ParseUserJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfileAndChangePassword(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)
	ctx := context.Background()

	registered, err := auth.Register(ctx, RegisterInput{Name: "Amina", Email: "amina@example.com", Password: "secret1"})
	require.NoError(t, err)
	userID := registered.User.ID

	user, err := auth.UpdateProfile(ctx, userID, ProfileInput{Name: " Amina Benali "})
	require.NoError(t, err)
	assert.Equal(t, "Amina Benali", user.Name)

	_, err = auth.UpdateProfile(ctx, userID, ProfileInput{Name: "A"})
	assert.ErrorIs(t, err, ErrValidation)
	user, err = auth.UpdateProfile(ctx, userID, ProfileInput{})
	require.NoError(t, err)
	assert.Empty(t, user.Name)
	_, err = auth.UpdateProfile(ctx, 999, ProfileInput{Name: "Personne"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = auth.ChangePassword(ctx, userID, ChangePasswordInput{CurrentPassword: "wrong-one", NewPassword: "secret2"})
	assert.ErrorIs(t, err, ErrWrongPassword)
	err = auth.ChangePassword(ctx, userID, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "123"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"Mot de passe trop court (min 6 caractères)"}, FieldErrorsOf(err)["new_password"])

	require.NoError(t, auth.ChangePassword(ctx, userID, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2"}))
	_, err = auth.Login(ctx, LoginInput{Email: "amina@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, LoginInput{Email: "amina@example.com", Password: "secret2"})
	assert.NoError(t, err)
}
