package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hndang/servihub-backend/internal/app/service"
	apperrors "github.com/hndang/servihub-backend/internal/errors"
	"github.com/hndang/servihub-backend/internal/middleware"
)

type AdminController struct {
	authService  service.AuthService
	adminService service.AdminService
}

func NewAdminController(authService service.AuthService, adminService service.AdminService) *AdminController {
	return &AdminController{
		authService:  authService,
		adminService: adminService,
	}
}

type CreateAdminRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

// Create registers a new admin account
// POST /api/v1/admin
func (ctrl *AdminController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create admin request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid admin input")
		return
	}

	admin, err := ctrl.authService.CreateAdmin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			log.Warn("Create admin failed: username already exists", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
			return
		}
		log.Error("Failed to create admin", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create admin")
		return
	}

	log.Info("Admin created", map[string]interface{}{
		"admin_id": admin.ID,
		"username": admin.Username,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin created successfully",
		"admin":   admin,
	})
}

// Stats returns entity counts for the admin dashboard
// GET /api/v1/admin/stats
func (ctrl *AdminController) Stats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.adminService.GetStats()
	if err != nil {
		log.Error("Failed to collect dashboard stats", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// ExportServices streams the catalog as an xlsx workbook
// GET /api/v1/admin/export/services
func (ctrl *AdminController) ExportServices(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.adminService.ExportServices()
	if err != nil {
		log.Error("Failed to export services", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export services")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("services_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write xlsx response", err, nil)
	}
}
