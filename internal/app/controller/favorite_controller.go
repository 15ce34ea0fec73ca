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

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

type CreateFavoriteRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

// List returns favorites, either paged or for one user
// GET /api/v1/favorite
func (ctrl *FavoriteController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
			return
		}
		favorites, err := ctrl.favoriteService.ListByUser(uint(userID))
		if err != nil {
			log.Error("Failed to list favorites for user", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list favorites")
			return
		}
		c.JSON(http.StatusOK, gin.H{"favorites": favorites})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))

	favorites, err := ctrl.favoriteService.ListFavorites(page, limit)
	if err != nil {
		log.Error("Failed to list favorites", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
	})
}

// Get returns one favorite with its service
// GET /api/v1/favorite/:id
func (ctrl *FavoriteController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid favorite ID")
		return
	}

	favorite, err := ctrl.favoriteService.GetFavorite(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			apperrors.NotFound(c, apperrors.FavoriteNotFound, "Favorite not found")
			return
		}
		log.Error("Failed to get favorite", err, map[string]interface{}{
			"favorite_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorite": favorite,
	})
}

// Create marks a service as favorite for the authenticated user
// POST /api/v1/favorite
func (ctrl *FavoriteController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetPrincipalID(c)
	if !exists {
		log.Warn("Unauthorized access to Create favorite endpoint", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create favorite request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid favorite input")
		return
	}

	favorite, err := ctrl.favoriteService.CreateFavorite(userID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Service not found")
		case errors.Is(err, service.ErrFavoriteExists):
			apperrors.Conflict(c, apperrors.FavoriteAlreadyExists, "Service is already a favorite")
		default:
			log.Error("Failed to create favorite", err, map[string]interface{}{
				"service_id": req.ServiceID,
				"user_id":    userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create favorite")
		}
		return
	}

	log.Info("Favorite created", map[string]interface{}{
		"favorite_id": favorite.ID,
		"service_id":  favorite.ServiceID,
		"user_id":     userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Favorite created successfully",
		"favorite": favorite,
	})
}

// Delete removes one of the authenticated user's favorites
// DELETE /api/v1/favorite/:id
func (ctrl *FavoriteController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetPrincipalID(c)
	if !exists {
		log.Warn("Unauthorized access to Delete favorite endpoint", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid favorite ID")
		return
	}

	if err := ctrl.favoriteService.DeleteFavorite(uint(id), userID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			apperrors.NotFound(c, apperrors.FavoriteNotFound, "Favorite not found")
			return
		}
		log.Error("Failed to delete favorite", err, map[string]interface{}{
			"favorite_id": id,
			"user_id":     userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete favorite")
		return
	}

	log.Info("Favorite deleted", map[string]interface{}{
		"favorite_id": id,
		"user_id":     userID,
	})

	c.Status(http.StatusNoContent)
}
