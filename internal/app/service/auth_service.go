package service

import (
	"errors"
	"time"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/pkg/logger"
	"github.com/hndang/servihub-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPrincipalNotFound  = errors.New("principal not found")
)

// Principal is an authenticated identity attached to a request. Users and
// admins are distinct principal kinds, not roles of one another.
type Principal struct {
	ID       uint
	Username string
	Kind     string // util.PrincipalUser or util.PrincipalAdmin
	Role     string
	FullName string
}

func (p *Principal) IsAdmin() bool {
	return p.Kind == util.PrincipalAdmin
}

type AuthService interface {
	Register(username, fullName string, age *int, password, passwordConfirmation, role string) (*model.User, error)
	Login(username, password string) (*Principal, string, error)
	ResolvePrincipal(username string) (*Principal, error)
	CreateAdmin(username, password string) (*model.Admin, error)
}

type authService struct {
	userRepo     repository.UserRepository
	adminRepo    repository.AdminRepository
	jwtSecret    string
	accessExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	jwtSecret string,
	accessExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		adminRepo:    adminRepo,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

// usernameTaken checks both principal spaces. Uniqueness is global across
// users and admins so a login can never be shadowed by a same-named
// account in the other space.
func (s *authService) usernameTaken(username string) (bool, error) {
	_, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	_, err = s.adminRepo.FindByUsername(username)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return false, nil
}

func (s *authService) Register(username, fullName string, age *int, password, passwordConfirmation, role string) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
		"role":     role,
	})

	if password != passwordConfirmation {
		logger.Warn("Registration failed: passwords do not match", map[string]interface{}{
			"username": username,
		})
		return nil, ErrPasswordMismatch
	}

	taken, err := s.usernameTaken(username)
	if err != nil {
		logger.Error("Failed to check existing username", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}
	if taken {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
		FullName:     fullName,
		Age:          age,
		Role:         role,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
		"role":     user.Role,
	})

	return user, nil
}

// Login checks the User space first, then the Administrator space. The
// first account whose password verifies wins.
func (s *authService) Login(username, password string) (*Principal, string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up user", err, map[string]interface{}{
			"username": username,
		})
		return nil, "", err
	}
	if user != nil && util.VerifyPassword(user.PasswordHash, password) {
		principal := &Principal{
			ID:       user.ID,
			Username: user.Username,
			Kind:     util.PrincipalUser,
			Role:     user.Role,
			FullName: user.FullName,
		}
		token, err := s.issueToken(principal)
		if err != nil {
			return nil, "", err
		}
		logger.Info("User logged in successfully", map[string]interface{}{
			"user_id":  user.ID,
			"username": username,
		})
		return principal, token, nil
	}

	admin, err := s.adminRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up admin", err, map[string]interface{}{
			"username": username,
		})
		return nil, "", err
	}
	if admin != nil && util.VerifyPassword(admin.PasswordHash, password) {
		principal := &Principal{
			ID:       admin.ID,
			Username: admin.Username,
			Kind:     util.PrincipalAdmin,
			Role:     "admin",
			FullName: admin.Username,
		}
		token, err := s.issueToken(principal)
		if err != nil {
			return nil, "", err
		}
		logger.Info("Admin logged in successfully", map[string]interface{}{
			"admin_id": admin.ID,
			"username": username,
		})
		return principal, token, nil
	}

	logger.Warn("Login failed: invalid credentials", map[string]interface{}{
		"username": username,
	})
	return nil, "", ErrInvalidCredentials
}

func (s *authService) issueToken(p *Principal) (string, error) {
	token, err := util.GenerateToken(p.ID, p.Username, p.Kind, p.Role, s.jwtSecret, s.accessExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"username": p.Username,
		})
		return "", err
	}
	return token, nil
}

// ResolvePrincipal maps a validated token's username back to a live
// account, User space first. A token can outlive its account; that case
// surfaces as ErrPrincipalNotFound.
func (s *authService) ResolvePrincipal(username string) (*Principal, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return &Principal{
			ID:       user.ID,
			Username: user.Username,
			Kind:     util.PrincipalUser,
			Role:     user.Role,
			FullName: user.FullName,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	admin, err := s.adminRepo.FindByUsername(username)
	if err == nil {
		return &Principal{
			ID:       admin.ID,
			Username: admin.Username,
			Kind:     util.PrincipalAdmin,
			Role:     "admin",
			FullName: admin.Username,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	logger.Warn("Principal not found for valid token", map[string]interface{}{
		"username": username,
	})
	return nil, ErrPrincipalNotFound
}

func (s *authService) CreateAdmin(username, password string) (*model.Admin, error) {
	taken, err := s.usernameTaken(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: hashedPassword,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		logger.Error("Failed to create admin in database", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("Admin created successfully", map[string]interface{}{
		"admin_id": admin.ID,
		"username": username,
	})
	return admin, nil
}
