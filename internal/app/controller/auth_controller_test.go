package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/internal/app/service"
	"github.com/hndang/servihub-backend/internal/db"
	"github.com/hndang/servihub-backend/internal/middleware"
)

const testControllerSecret = "test-secret"

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	adminRepo := repository.NewAdminRepository(testDB)
	authService := service.NewAuthService(userRepo, adminRepo, testControllerSecret, 30*time.Minute)

	ctrl := NewAuthController(authService, 30*time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(testControllerSecret)

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	router.POST("/logout", ctrl.Logout)

	return router, authService
}

func TestAuthController_Register_Success(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	reqBody := RegisterRequest{
		Username:             "alice",
		FullName:             "Alice Nguyen",
		Password:             "password123",
		PasswordConfirmation: "password123",
		Role:                 "user",
	}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "User registered successfully", response["message"])
	assert.NotNil(t, response["user"])

	// The password digest never leaks in the response
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestAuthController_Register_Failures(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, err := authService.Register("taken", "Someone", nil, "password123", "password123", "user")
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     RegisterRequest
		wantCode int
		wantErr  string
	}{
		{
			name: "Password mismatch",
			body: RegisterRequest{
				Username: "alice", FullName: "Alice",
				Password: "password123", PasswordConfirmation: "different1",
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "AUTH_PASSWORD_MISMATCH",
		},
		{
			name: "Duplicate username",
			body: RegisterRequest{
				Username: "taken", FullName: "Someone Else",
				Password: "password123", PasswordConfirmation: "password123",
			},
			wantCode: http.StatusConflict,
			wantErr:  "AUTH_USERNAME_EXISTS",
		},
		{
			name: "Missing required fields",
			body: RegisterRequest{
				Username: "x",
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantErr)
		})
	}
}

func TestAuthController_Login_SetsCookie(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, err := authService.Register("alice", "Alice", nil, "password123", "password123", "user")
	require.NoError(t, err)

	body, _ := json.Marshal(LoginRequest{Username: "alice", Password: "password123"})
	req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == middleware.AccessTokenCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["access_token"])
}

func TestAuthController_Login_InvalidCredentials(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, err := authService.Register("alice", "Alice", nil, "password123", "password123", "user")
	require.NoError(t, err)

	body, _ := json.Marshal(LoginRequest{Username: "alice", Password: "wrong"})
	req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
}

func TestAuthController_GetMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, err := authService.Register("alice", "Alice", nil, "password123", "password123", "user")
	require.NoError(t, err)
	_, token, err := authService.Login("alice", "password123")
	require.NoError(t, err)

	t.Run("With session cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: token})
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
	})

	t.Run("Without credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_Logout_ClearsCookie(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	req := httptest.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout must expire the session cookie")
}
