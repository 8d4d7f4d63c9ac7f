package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return NewService(db, &config.AuthConfig{
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{
		Email:    "cook@example.com",
		Username: "cook",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)

	token, logged, err := svc.Login(ctx, "cook@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	require.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(u.ID), claims["userId"])
	assert.Equal(t, "cook@example.com", claims["email"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "cook@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "COOK@example.com", Password: "password2"})
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestRegisterDefaultsUsernameToEmail(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "noname@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "noname@example.com", u.Username)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "cook@example.com", Password: "password1"})
	require.NoError(t, err)

	// Wrong password and unknown email return the same error.
	_, _, err = svc.Login(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "ghost@example.com", "password1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{Email: "cook@example.com", Password: "password1"})
	require.NoError(t, err)

	bio := "I cook."
	name := "Chef"
	updated, err := svc.Update(ctx, u.ID, UpdateRequest{Username: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Chef", updated.Username)
	assert.Equal(t, "I cook.", updated.Bio)

	// Unset fields stay untouched.
	assert.Equal(t, "cook@example.com", updated.Email)

	_, err = svc.Update(ctx, 9999, UpdateRequest{Bio: &bio})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListReturnsEveryAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Register(ctx, RegisterRequest{Email: email, Password: "password1"})
		require.NoError(t, err)
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, "c@example.com", users[2].Email)
}
