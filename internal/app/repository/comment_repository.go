package repository

import (
	"github.com/hndang/servihub-backend/internal/app/model"

	"gorm.io/gorm"
)

type CommentSort string

const (
	CommentSortNone          CommentSort = ""
	CommentSortRatingAsc     CommentSort = "rating_asc"
	CommentSortRatingDesc    CommentSort = "rating_desc"
	CommentSortCreatedAtAsc  CommentSort = "created_at_asc"
	CommentSortCreatedAtDesc CommentSort = "created_at_desc"
)

type CommentFilter struct {
	ServiceType string // filter via join to the target service
	MinRating   *int
	MaxRating   *int
	SortBy      CommentSort
	OwnerUserID *uint // restrict to services owned by this user
}

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// Exists reports whether the (service, user) pair already has a comment.
func (r *CommentRepository) Exists(serviceID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("service_id = ? AND user_id = ?", serviceID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CommentRepository) FindByService(serviceID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Preload("User").
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return attachAuthorNames(comments), nil
}

func (r *CommentRepository) FindWithFilter(filter CommentFilter) ([]model.Comment, error) {
	query := r.db.Model(&model.Comment{}).Preload("User")

	if filter.OwnerUserID != nil {
		ownedSubquery := r.db.Model(&model.OwnService{}).
			Select("service_id").
			Where("user_id = ?", *filter.OwnerUserID)
		query = query.Where("comments.service_id IN (?)", ownedSubquery)
	}
	if filter.ServiceType != "" {
		query = query.Joins("JOIN services ON services.id = comments.service_id").
			Where("services.type = ?", filter.ServiceType)
	}
	if filter.MinRating != nil {
		query = query.Where("comments.rating >= ?", *filter.MinRating)
	}
	if filter.MaxRating != nil {
		query = query.Where("comments.rating <= ?", *filter.MaxRating)
	}

	switch filter.SortBy {
	case CommentSortRatingAsc:
		query = query.Order("comments.rating ASC")
	case CommentSortRatingDesc:
		query = query.Order("comments.rating DESC")
	case CommentSortCreatedAtAsc:
		query = query.Order("comments.created_at ASC")
	case CommentSortCreatedAtDesc:
		query = query.Order("comments.created_at DESC")
	case CommentSortNone:
		// natural order
	}

	var comments []model.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return attachAuthorNames(comments), nil
}

// DeleteByService removes every comment targeting a service. Runs inside
// the caller's transaction when tx is the transaction handle.
func DeleteCommentsByService(tx *gorm.DB, serviceID uint) error {
	return tx.Where("service_id = ?", serviceID).Delete(&model.Comment{}).Error
}

// attachAuthorNames copies the preloaded author's display name onto each
// comment. The name is denormalized at read time, never stored.
func attachAuthorNames(comments []model.Comment) []model.Comment {
	for i := range comments {
		comments[i].FullName = comments[i].User.FullName
	}
	return comments
}
