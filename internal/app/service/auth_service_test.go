package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/internal/db"
	"github.com/hndang/servihub-backend/pkg/util"
)

const testJWTSecret = "auth-service-test-secret"

func setupAuthTest(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	adminRepo := repository.NewAdminRepository(testDB)
	svc := NewAuthService(userRepo, adminRepo, testJWTSecret, 30*time.Minute)
	return testDB, svc
}

func TestAuthService_Register(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	age := 30

	user, err := svc.Register("alice", "Alice Nguyen", &age, "secret123", "secret123", "user")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice Nguyen", user.FullName)

	// Password is stored hashed, never in the clear
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "secret123"))
}

func TestAuthService_Register_Rejections(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.Register("alice", "Alice", nil, "secret123", "secret123", "user")
	require.NoError(t, err)

	_, err = svc.CreateAdmin("root", "adminpass")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		wantErr  error
	}{
		{
			name:     "Password confirmation mismatch",
			username: "bob",
			password: "secret123",
			confirm:  "different",
			wantErr:  ErrPasswordMismatch,
		},
		{
			name:     "Username taken in user space",
			username: "alice",
			password: "secret123",
			confirm:  "secret123",
			wantErr:  ErrUsernameExists,
		},
		{
			name:     "Username taken in admin space",
			username: "root",
			password: "secret123",
			confirm:  "secret123",
			wantErr:  ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.username, "Someone", nil, tt.password, tt.confirm, "user")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.Register("alice", "Alice", nil, "secret123", "secret123", "business")
	require.NoError(t, err)
	_, err = svc.CreateAdmin("root", "adminpass")
	require.NoError(t, err)

	t.Run("User login", func(t *testing.T) {
		principal, token, err := svc.Login("alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, util.PrincipalUser, principal.Kind)
		assert.Equal(t, "business", principal.Role)
		assert.False(t, principal.IsAdmin())

		claims, err := util.ValidateToken(token, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, util.PrincipalUser, claims.Kind)
	})

	t.Run("Admin login", func(t *testing.T) {
		principal, token, err := svc.Login("root", "adminpass")
		require.NoError(t, err)
		assert.Equal(t, util.PrincipalAdmin, principal.Kind)
		assert.True(t, principal.IsAdmin())

		claims, err := util.ValidateToken(token, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, util.PrincipalAdmin, claims.Kind)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := svc.Login("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown username", func(t *testing.T) {
		_, _, err := svc.Login("nobody", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_ResolvePrincipal(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	user, err := svc.Register("alice", "Alice", nil, "secret123", "secret123", "user")
	require.NoError(t, err)
	admin, err := svc.CreateAdmin("root", "adminpass")
	require.NoError(t, err)

	t.Run("User space", func(t *testing.T) {
		principal, err := svc.ResolvePrincipal("alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.ID)
		assert.Equal(t, util.PrincipalUser, principal.Kind)
		assert.Equal(t, "Alice", principal.FullName)
	})

	t.Run("Admin space", func(t *testing.T) {
		principal, err := svc.ResolvePrincipal("root")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, principal.ID)
		assert.Equal(t, util.PrincipalAdmin, principal.Kind)
	})

	t.Run("Deleted account", func(t *testing.T) {
		_, err := svc.ResolvePrincipal("gone")
		assert.ErrorIs(t, err, ErrPrincipalNotFound)
	})
}

func TestAuthService_CreateAdmin_DuplicateAcrossSpaces(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.Register("alice", "Alice", nil, "secret123", "secret123", "user")
	require.NoError(t, err)

	_, err = svc.CreateAdmin("alice", "adminpass")
	assert.ErrorIs(t, err, ErrUsernameExists)
}
