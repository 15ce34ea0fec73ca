package service

import (
	"errors"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/pkg/logger"
	"github.com/hndang/servihub-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserUpdateInput struct {
	FullName string
	Age      *int
	Role     string
	Password string // re-hashed when non-empty, otherwise unchanged
}

type UserService interface {
	GetUser(id uint) (*model.User, error)
	ListUsers(page, limit int) ([]model.User, error)
	UpdateUser(id uint, input UserUpdateInput) (*model.User, error)
	DeleteUser(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
	db       *gorm.DB
}

func NewUserService(userRepo repository.UserRepository, db *gorm.DB) UserService {
	return &userService{
		userRepo: userRepo,
		db:       db,
	}
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(page, limit int) ([]model.User, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = 10
	}
	return s.userRepo.FindAll((page-1)*limit, limit)
}

// UpdateUser edits the profile. The id and username are immutable.
func (s *userService) UpdateUser(id uint, input UserUpdateInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Password != "" {
		hash, err := util.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

// DeleteUser removes the account and, in the same transaction, the
// user's comments, favorites, ownership links, and the services they own
// together with those services' images, comments and favorites. No
// orphans survive.
func (s *userService) DeleteUser(id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ownedIDs []uint
		if err := tx.Model(&model.OwnService{}).
			Where("user_id = ?", id).
			Pluck("service_id", &ownedIDs).Error; err != nil {
			return err
		}

		if len(ownedIDs) > 0 {
			if err := tx.Where("service_id IN ?", ownedIDs).Delete(&model.ServiceImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("service_id IN ?", ownedIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("service_id IN ?", ownedIDs).Delete(&model.Favorite{}).Error; err != nil {
				return err
			}
			if err := tx.Where("service_id IN ?", ownedIDs).Delete(&model.OwnService{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ownedIDs).Delete(&model.Service{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.OwnService{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Info("User deleted with owned services and references", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
