package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hndang/servihub-backend/internal/app/service"
	apperrors "github.com/hndang/servihub-backend/internal/errors"
	"github.com/hndang/servihub-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

type CreateCommentRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Title     string `json:"title"`
	Content   string `json:"content" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
}

// ListByService returns the comments on one service, newest first
// GET /api/v1/comment/service/:service_id
func (ctrl *CommentController) ListByService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	serviceID, err := strconv.ParseUint(c.Param("service_id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid service ID")
		return
	}

	comments, err := ctrl.commentService.ListByService(uint(serviceID))
	if err != nil {
		log.Error("Failed to list comments for service", err, map[string]interface{}{
			"service_id": serviceID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
	})
}

// List returns comments across all services, filtered and sorted
// GET /api/v1/comment
func (ctrl *CommentController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	serviceType := c.DefaultQuery("type", "all")
	sortBy := c.Query("sort_by")

	minRating, maxRating, err := ratingBounds(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid rating range")
		return
	}

	comments, err := ctrl.commentService.List(serviceType, minRating, maxRating, sortBy)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSort) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidSort, "Unrecognized sort option")
			return
		}
		log.Error("Failed to list comments", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
	})
}

// ListByOwner returns comments across the services a user owns
// GET /api/v1/comment/business/:user_id
func (ctrl *CommentController) ListByOwner(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	serviceType := c.DefaultQuery("type", "all")
	sortBy := c.Query("sort_by")

	minRating, maxRating, err := ratingBounds(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid rating range")
		return
	}

	comments, err := ctrl.commentService.ListByOwner(uint(userID), serviceType, minRating, maxRating, sortBy)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSort) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidSort, "Unrecognized sort option")
			return
		}
		log.Error("Failed to list comments by owner", err, map[string]interface{}{
			"owner_user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list comments by owner")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
	})
}

// Create posts a comment by the authenticated user
// POST /api/v1/comment
func (ctrl *CommentController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetPrincipalID(c)
	if !exists {
		log.Warn("Unauthorized access to Create comment endpoint", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create comment request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid comment input")
		return
	}

	comment, err := ctrl.commentService.CreateComment(req.ServiceID, userID, req.Title, req.Content, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Service not found")
		case errors.Is(err, service.ErrCommentExists):
			log.Warn("Duplicate comment rejected", map[string]interface{}{
				"service_id": req.ServiceID,
				"user_id":    userID,
			})
			apperrors.Conflict(c, apperrors.CommentAlreadyExists, "You have already commented on this service")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.CommentInvalidRating, "Rating must be between 1 and 5")
		case errors.Is(err, service.ErrCommentTooLong):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Comment content is too long")
		default:
			log.Error("Failed to create comment", err, map[string]interface{}{
				"service_id": req.ServiceID,
				"user_id":    userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create comment")
		}
		return
	}

	log.Info("Comment created", map[string]interface{}{
		"service_id": comment.ServiceID,
		"user_id":    comment.UserID,
		"rating":     comment.Rating,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

// ratingBounds parses the optional min_rating/max_rating query parameters.
func ratingBounds(c *gin.Context) (*int, *int, error) {
	var minRating, maxRating *int
	if raw := c.Query("min_rating"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, nil, err
		}
		minRating = &v
	}
	if raw := c.Query("max_rating"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, nil, err
		}
		maxRating = &v
	}
	return minRating, maxRating, nil
}
