package service

import (
	"errors"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCommentExists  = errors.New("user has already commented on this service")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("comment content is too long")
)

const maxCommentLength = 4000

type CommentService interface {
	CreateComment(serviceID, userID uint, title, content string, rating int) (*model.Comment, error)
	ListByService(serviceID uint) ([]model.Comment, error)
	List(serviceType string, minRating, maxRating *int, sortBy string) ([]model.Comment, error)
	ListByOwner(ownerUserID uint, serviceType string, minRating, maxRating *int, sortBy string) ([]model.Comment, error)
}

type commentService struct {
	commentRepo *repository.CommentRepository
	serviceRepo repository.ServiceRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, serviceRepo repository.ServiceRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		serviceRepo: serviceRepo,
	}
}

func parseCommentSort(sortBy string) (repository.CommentSort, error) {
	switch repository.CommentSort(sortBy) {
	case repository.CommentSortNone,
		repository.CommentSortRatingAsc,
		repository.CommentSortRatingDesc,
		repository.CommentSortCreatedAtAsc,
		repository.CommentSortCreatedAtDesc:
		return repository.CommentSort(sortBy), nil
	default:
		return repository.CommentSortNone, ErrInvalidSort
	}
}

// CreateComment enforces one comment per user per service. The pre-check
// gives the friendly error; the composite primary key arbitrates
// concurrent duplicate writers, and that violation maps to the same
// taxonomy code at the boundary.
func (s *commentService) CreateComment(serviceID, userID uint, title, content string, rating int) (*model.Comment, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if len(content) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	if _, err := s.serviceRepo.FindByID(serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	exists, err := s.commentRepo.Exists(serviceID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Duplicate comment rejected", map[string]interface{}{
			"service_id": serviceID,
			"user_id":    userID,
		})
		return nil, ErrCommentExists
	}

	comment := &model.Comment{
		ServiceID: serviceID,
		UserID:    userID,
		Title:     title,
		Content:   content,
		Rating:    rating,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"service_id": serviceID,
			"user_id":    userID,
		})
		return nil, err
	}

	logger.Info("Comment created", map[string]interface{}{
		"service_id": serviceID,
		"user_id":    userID,
		"rating":     rating,
	})
	return comment, nil
}

func (s *commentService) ListByService(serviceID uint) ([]model.Comment, error) {
	return s.commentRepo.FindByService(serviceID)
}

func (s *commentService) List(serviceType string, minRating, maxRating *int, sortBy string) ([]model.Comment, error) {
	sort, err := parseCommentSort(sortBy)
	if err != nil {
		return nil, err
	}

	return s.commentRepo.FindWithFilter(repository.CommentFilter{
		ServiceType: serviceType,
		MinRating:   minRating,
		MaxRating:   maxRating,
		SortBy:      sort,
	})
}

func (s *commentService) ListByOwner(ownerUserID uint, serviceType string, minRating, maxRating *int, sortBy string) ([]model.Comment, error) {
	sort, err := parseCommentSort(sortBy)
	if err != nil {
		return nil, err
	}

	return s.commentRepo.FindWithFilter(repository.CommentFilter{
		ServiceType: serviceType,
		MinRating:   minRating,
		MaxRating:   maxRating,
		SortBy:      sort,
		OwnerUserID: &ownerUserID,
	})
}
