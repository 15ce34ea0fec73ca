package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hndang/servihub-backend/internal/app/service"
	apperrors "github.com/hndang/servihub-backend/internal/errors"
	"github.com/hndang/servihub-backend/internal/middleware"
)

type AuthController struct {
	authService  service.AuthService
	accessExpiry time.Duration
}

func NewAuthController(authService service.AuthService, accessExpiry time.Duration) *AuthController {
	return &AuthController{
		authService:  authService,
		accessExpiry: accessExpiry,
	}
}

type RegisterRequest struct {
	Username             string `json:"username" binding:"required,min=3,max=50"`
	FullName             string `json:"full_name" binding:"required"`
	Age                  *int   `json:"age"`
	Password             string `json:"password" binding:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
	Role                 string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration input")
		return
	}

	log.Debug("Processing registration", map[string]interface{}{
		"username": req.Username,
		"role":     req.Role,
	})

	user, err := ctrl.authService.Register(req.Username, req.FullName, req.Age, req.Password, req.PasswordConfirmation, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			log.Warn("Registration failed: username already exists", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
			return
		}
		if errors.Is(err, service.ErrPasswordMismatch) {
			log.Warn("Registration failed: password confirmation mismatch", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.BadRequest(c, apperrors.AuthPasswordMismatch, "Password confirmation does not match")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login verifies credentials and sets the access token cookie
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login input")
		return
	}

	log.Debug("Processing login", map[string]interface{}{
		"username": req.Username,
	})

	principal, token, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid username or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	// Http-only session cookie; the token is also returned in the body for
	// clients that prefer the Authorization header.
	c.SetCookie(middleware.AccessTokenCookie, token, int(ctrl.accessExpiry.Seconds()), "/", "", false, true)

	log.Info("Login successful", map[string]interface{}{
		"username": principal.Username,
		"kind":     principal.Kind,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"token_type":   "bearer",
		"principal": gin.H{
			"id":        principal.ID,
			"username":  principal.Username,
			"kind":      principal.Kind,
			"role":      principal.Role,
			"full_name": principal.FullName,
		},
	})
}

// GetMe resolves the authenticated principal
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	username, exists := middleware.GetPrincipalUsername(c)
	if !exists {
		log.Warn("Unauthorized access to GetMe endpoint", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	principal, err := ctrl.authService.ResolvePrincipal(username)
	if err != nil {
		if errors.Is(err, service.ErrPrincipalNotFound) {
			// Token outlived the account.
			log.Warn("Principal not found for valid token", map[string]interface{}{
				"username": username,
			})
			apperrors.NotFound(c, apperrors.AuthPrincipalNotFound, "Account no longer exists")
			return
		}
		log.Error("Failed to resolve principal", err, map[string]interface{}{
			"username": username,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resolve principal")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"principal": gin.H{
			"id":        principal.ID,
			"username":  principal.Username,
			"kind":      principal.Kind,
			"role":      principal.Role,
			"full_name": principal.FullName,
		},
	})
}

// Logout clears the access token cookie
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if username, exists := middleware.GetPrincipalUsername(c); exists {
		log.Info("Principal logged out", map[string]interface{}{
			"username": username,
		})
	}

	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
