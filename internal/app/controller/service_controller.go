package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hndang/servihub-backend/internal/app/service"
	apperrors "github.com/hndang/servihub-backend/internal/errors"
	"github.com/hndang/servihub-backend/internal/middleware"
	"github.com/hndang/servihub-backend/internal/storage"
)

type ServiceController struct {
	catalogService service.CatalogService
	imageStorage   storage.ImageStorage
	maxUploadSize  int64
}

func NewServiceController(catalogService service.CatalogService, imageStorage storage.ImageStorage, maxUploadSize int64) *ServiceController {
	return &ServiceController{
		catalogService: catalogService,
		imageStorage:   imageStorage,
		maxUploadSize:  maxUploadSize,
	}
}

type CreateServiceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Geolocation string   `json:"geolocation"`
	Type        string   `json:"type" binding:"required"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	Email       string   `json:"email"`
	ImageURLs   []string `json:"image_urls"`
}

type AddImageRequest struct {
	ImageURL string `json:"image_url"`
}

// List returns the filtered, sorted, paginated catalog page
// GET /api/v1/service
func (ctrl *ServiceController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	search := c.Query("search")
	serviceType := c.DefaultQuery("type", "all")
	sortBy := c.Query("sort_by")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))

	services, total, err := ctrl.catalogService.ListServices(search, serviceType, sortBy, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSort) {
			log.Warn("Invalid sort option", map[string]interface{}{
				"sort_by": sortBy,
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidSort, "Unrecognized sort option")
			return
		}
		log.Error("Failed to list services", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"total":    total,
	})
}

// ListAll returns every service without pagination
// GET /api/v1/service/all
func (ctrl *ServiceController) ListAll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	services, err := ctrl.catalogService.ListAllServices()
	if err != nil {
		log.Error("Failed to list all services", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list all services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
	})
}

// Trending returns the most viewed services
// GET /api/v1/service/trending
func (ctrl *ServiceController) Trending(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))

	services, err := ctrl.catalogService.Trending(c.Request.Context(), limit)
	if err != nil {
		log.Error("Failed to list trending services", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list trending services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
	})
}

// MyServices returns the services owned by the authenticated user
// GET /api/v1/service/my_services
func (ctrl *ServiceController) MyServices(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetPrincipalID(c)
	if !exists {
		log.Warn("Unauthorized access to MyServices endpoint", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	services, err := ctrl.catalogService.ListMyServices(userID)
	if err != nil {
		log.Error("Failed to list owned services", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list owned services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
	})
}

// Get returns one service with images and average rating
// GET /api/v1/service/:id
func (ctrl *ServiceController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid service ID")
		return
	}

	svc, err := ctrl.catalogService.GetService(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Service not found")
			return
		}
		log.Error("Failed to get service", err, map[string]interface{}{
			"service_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get service")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service": svc,
	})
}

// Create registers a new service owned by the authenticated user
// POST /api/v1/service/create
func (ctrl *ServiceController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	principal, ok := principalFromContext(c)
	if !ok {
		log.Warn("Unauthorized access to Create service endpoint", nil)
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create service request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid service input")
		return
	}

	svc, err := ctrl.catalogService.CreateService(principal, service.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Geolocation: req.Geolocation,
		Type:        req.Type,
		Phone:       req.Phone,
		Website:     req.Website,
		Email:       req.Email,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		if errors.Is(err, service.ErrAdminCannotOwn) {
			log.Warn("Admin attempted to create a service", map[string]interface{}{
				"username": principal.Username,
			})
			apperrors.Forbidden(c, "Administrators cannot own services")
			return
		}
		log.Error("Failed to create service", err, map[string]interface{}{
			"user_id": principal.ID,
			"name":    req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create service")
		return
	}

	log.Info("Service created", map[string]interface{}{
		"service_id": svc.ID,
		"user_id":    principal.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service created successfully",
		"service": svc,
	})
}

// Delete removes a service with all of its dependent rows
// DELETE /api/v1/service/:id
func (ctrl *ServiceController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid service ID")
		return
	}

	if err := ctrl.catalogService.DeleteService(uint(id)); err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Service not found")
			return
		}
		log.Error("Failed to delete service", err, map[string]interface{}{
			"service_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete service")
		return
	}

	log.Info("Service deleted", map[string]interface{}{
		"service_id": id,
	})

	c.Status(http.StatusNoContent)
}

// AddImage attaches an image to a service, either as a multipart file
// upload or as a JSON body with a pre-uploaded URL
// POST /api/v1/service/:id/images
func (ctrl *ServiceController) AddImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid service ID")
		return
	}

	var imageURL string
	if file, err := c.FormFile("file"); err == nil {
		imageURL, err = ctrl.storeUpload(c, file)
		if err != nil {
			return // storeUpload already responded
		}
	} else {
		var req AddImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Expected a multipart file or an image_url body")
			return
		}
		if req.ImageURL == "" {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "image_url is required")
			return
		}
		imageURL = req.ImageURL
	}

	image, err := ctrl.catalogService.AddServiceImage(uint(id), imageURL)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Service not found")
			return
		}
		log.Error("Failed to attach service image", err, map[string]interface{}{
			"service_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add service image")
		return
	}

	log.Info("Service image added", map[string]interface{}{
		"service_id": id,
		"image_id":   image.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image added successfully",
		"image":   image,
	})
}

// storeUpload validates and persists a multipart upload, responding on
// failure and returning the stored URL on success.
func (ctrl *ServiceController) storeUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	log := middleware.GetLoggerFromContext(c)

	if err := storage.ValidateFileSize(file.Size, ctrl.maxUploadSize); err != nil {
		log.Warn("Upload rejected: file too large", map[string]interface{}{
			"size": file.Size,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "File exceeds the maximum allowed size")
		return "", err
	}

	contentType := file.Header.Get("Content-Type")
	if err := storage.ValidateContentType(contentType, storage.AllowedImageTypes); err != nil {
		log.Warn("Upload rejected: content type not allowed", map[string]interface{}{
			"content_type": contentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "File type is not allowed")
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read uploaded file")
		return "", err
	}
	defer src.Close()

	url, err := ctrl.imageStorage.Save(c.Request.Context(), file.Filename, contentType, src)
	if err != nil {
		log.Error("Failed to store uploaded file", err, map[string]interface{}{
			"filename": file.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to store uploaded file")
		return "", err
	}
	return url, nil
}

// principalFromContext rebuilds the authenticated principal from the
// claims the auth middleware stored.
func principalFromContext(c *gin.Context) (*service.Principal, bool) {
	id, ok := middleware.GetPrincipalID(c)
	if !ok {
		return nil, false
	}
	username, _ := middleware.GetPrincipalUsername(c)
	kind, _ := middleware.GetPrincipalKind(c)
	return &service.Principal{
		ID:       id,
		Username: username,
		Kind:     kind,
	}, true
}
