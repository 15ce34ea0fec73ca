package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		username string
		kind     string
		role     string
	}{
		{
			name:     "User principal",
			userID:   1,
			username: "alice",
			kind:     PrincipalUser,
			role:     "user",
		},
		{
			name:     "Business user principal",
			userID:   2,
			username: "bob",
			kind:     PrincipalUser,
			role:     "business",
		},
		{
			name:     "Admin principal",
			userID:   3,
			username: "root",
			kind:     PrincipalAdmin,
			role:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.userID, tt.username, tt.kind, tt.role, testSecret, 30*time.Minute)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.kind, claims.Kind)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.username, claims.Subject)
		})
	}
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken(123, "alice", PrincipalUser, "user", testSecret, 30*time.Minute)
	require.NoError(t, err)

	expiredToken, err := GenerateToken(123, "alice", PrincipalUser, "user", testSecret, -time.Minute)
	require.NoError(t, err)

	otherSecretToken, err := GenerateToken(123, "alice", PrincipalUser, "user", "a-different-secret", 30*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Expired token",
			token:   expiredToken,
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
		{
			name:    "Wrong secret",
			token:   otherSecretToken,
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Tampered token",
			token:   token + "x",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Malformed token",
			token:   "not.a.token",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, uint(123), claims.UserID)
			}
		})
	}
}

func TestValidateToken_RejectedAfterExpiry(t *testing.T) {
	token, err := GenerateToken(1, "alice", PrincipalUser, "user", testSecret, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // jwt exp has second granularity

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
