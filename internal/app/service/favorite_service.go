package service

import (
	"errors"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFavoriteExists   = errors.New("service is already a favorite")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteService interface {
	CreateFavorite(userID, serviceID uint) (*model.Favorite, error)
	ListFavorites(page, limit int) ([]model.Favorite, error)
	GetFavorite(id uint) (*model.Favorite, error)
	ListByUser(userID uint) ([]model.Favorite, error)
	DeleteFavorite(id, userID uint) error
}

type favoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	serviceRepo  repository.ServiceRepository
}

func NewFavoriteService(favoriteRepo *repository.FavoriteRepository, serviceRepo repository.ServiceRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		serviceRepo:  serviceRepo,
	}
}

// CreateFavorite enforces at most one favorite per user per service. The
// unique index on the pair resolves concurrent duplicates.
func (s *favoriteService) CreateFavorite(userID, serviceID uint) (*model.Favorite, error) {
	if _, err := s.serviceRepo.FindByID(serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	exists, err := s.favoriteRepo.Exists(userID, serviceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFavoriteExists
	}

	favorite := &model.Favorite{
		UserID:    userID,
		ServiceID: serviceID,
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		logger.Error("Failed to create favorite", err, map[string]interface{}{
			"user_id":    userID,
			"service_id": serviceID,
		})
		return nil, err
	}

	logger.Info("Favorite created", map[string]interface{}{
		"user_id":    userID,
		"service_id": serviceID,
	})
	return favorite, nil
}

func (s *favoriteService) ListFavorites(page, limit int) ([]model.Favorite, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = 10
	}
	return s.favoriteRepo.FindAll((page-1)*limit, limit)
}

func (s *favoriteService) GetFavorite(id uint) (*model.Favorite, error) {
	favorite, err := s.favoriteRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	return favorite, nil
}

func (s *favoriteService) ListByUser(userID uint) ([]model.Favorite, error) {
	return s.favoriteRepo.FindByUser(userID)
}

// DeleteFavorite only removes the caller's own favorite.
func (s *favoriteService) DeleteFavorite(id, userID uint) error {
	favorite, err := s.favoriteRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	if favorite.UserID != userID {
		return ErrFavoriteNotFound
	}
	return s.favoriteRepo.Delete(id)
}
