package service

import (
	"context"
	"errors"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidSort     = errors.New("unrecognized sort option")
	ErrAdminCannotOwn  = errors.New("administrators cannot own services")
)

const (
	DefaultPageSize = 8
	MaxPageSize     = 100
)

// ViewCounter counts service detail views for the trending listing.
// Implementations may be absent at runtime; trending then degrades.
type ViewCounter interface {
	Increment(ctx context.Context, serviceID uint) error
	Top(ctx context.Context, n int) ([]uint, error)
}

type ServiceInput struct {
	Name        string
	Description string
	Address     string
	Geolocation string
	Type        string
	Phone       string
	Website     string
	Email       string
	ImageURLs   []string
}

type CatalogService interface {
	ListServices(search, serviceType, sortBy string, page, limit int) ([]model.Service, int64, error)
	ListAllServices() ([]model.Service, error)
	GetService(ctx context.Context, id uint) (*model.Service, error)
	ListMyServices(userID uint) ([]model.Service, error)
	CreateService(principal *Principal, input ServiceInput) (*model.Service, error)
	DeleteService(id uint) error
	AddServiceImage(serviceID uint, imageURL string) (*model.ServiceImage, error)
	Trending(ctx context.Context, limit int) ([]model.Service, error)
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
	db          *gorm.DB
	views       ViewCounter // nil when redis is not configured
}

func NewCatalogService(serviceRepo repository.ServiceRepository, db *gorm.DB, views ViewCounter) CatalogService {
	return &catalogService{
		serviceRepo: serviceRepo,
		db:          db,
		views:       views,
	}
}

func parseServiceSort(sortBy string) (repository.ServiceSort, error) {
	switch repository.ServiceSort(sortBy) {
	case repository.ServiceSortNone,
		repository.ServiceSortRatingAsc,
		repository.ServiceSortRatingDesc,
		repository.ServiceSortCreatedAtAsc,
		repository.ServiceSortCreatedAtDesc:
		return repository.ServiceSort(sortBy), nil
	default:
		return repository.ServiceSortNone, ErrInvalidSort
	}
}

func (s *catalogService) ListServices(search, serviceType, sortBy string, page, limit int) ([]model.Service, int64, error) {
	sort, err := parseServiceSort(sortBy)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := repository.ServiceFilter{
		Search: search,
		Type:   serviceType,
		SortBy: sort,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	return s.serviceRepo.FindWithFilter(filter)
}

func (s *catalogService) ListAllServices() ([]model.Service, error) {
	return s.serviceRepo.FindAll()
}

func (s *catalogService) GetService(ctx context.Context, id uint) (*model.Service, error) {
	service, err := s.serviceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	if s.views != nil {
		// View counting is best effort; a counter failure never fails the
		// read.
		if err := s.views.Increment(ctx, id); err != nil {
			logger.Warn("Failed to record service view", map[string]interface{}{
				"service_id": id,
				"error":      err.Error(),
			})
		}
	}
	return service, nil
}

func (s *catalogService) ListMyServices(userID uint) ([]model.Service, error) {
	return s.serviceRepo.FindByOwner(userID)
}

// CreateService persists the service, its ownership link and any initial
// images in one transaction. If any write fails, none are visible.
func (s *catalogService) CreateService(principal *Principal, input ServiceInput) (*model.Service, error) {
	if principal.IsAdmin() {
		return nil, ErrAdminCannotOwn
	}

	logger.Info("Creating service", map[string]interface{}{
		"name":     input.Name,
		"type":     input.Type,
		"owner_id": principal.ID,
	})

	service := &model.Service{
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		Geolocation: input.Geolocation,
		Type:        input.Type,
		Phone:       input.Phone,
		Website:     input.Website,
		Email:       input.Email,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(service).Error; err != nil {
			return err
		}

		ownership := &model.OwnService{
			UserID:    principal.ID,
			ServiceID: service.ID,
		}
		if err := tx.Create(ownership).Error; err != nil {
			return err
		}

		for _, url := range input.ImageURLs {
			image := &model.ServiceImage{
				ServiceID: service.ID,
				ImageURL:  url,
			}
			if err := tx.Create(image).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create service", err, map[string]interface{}{
			"name":     input.Name,
			"owner_id": principal.ID,
		})
		return nil, err
	}

	logger.Info("Service created successfully", map[string]interface{}{
		"service_id": service.ID,
		"owner_id":   principal.ID,
	})

	service.ImageURLs = input.ImageURLs
	if len(input.ImageURLs) > 0 {
		url := input.ImageURLs[0]
		service.MainImageURL = &url
	}
	return service, nil
}

// DeleteService removes the service and every row referencing it through
// the four child tables, atomically.
func (s *catalogService) DeleteService(id uint) error {
	_, err := s.serviceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceNotFound
		}
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&model.ServiceImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&model.OwnService{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Service{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete service", err, map[string]interface{}{
			"service_id": id,
		})
		return err
	}

	logger.Info("Service deleted", map[string]interface{}{
		"service_id": id,
	})
	return nil
}

func (s *catalogService) AddServiceImage(serviceID uint, imageURL string) (*model.ServiceImage, error) {
	if _, err := s.serviceRepo.FindByID(serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	image := &model.ServiceImage{
		ServiceID: serviceID,
		ImageURL:  imageURL,
	}
	if err := s.db.Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// Trending returns the most viewed services. Without a view counter it
// falls back to the most recently created ones.
func (s *catalogService) Trending(ctx context.Context, limit int) ([]model.Service, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	if s.views == nil {
		return s.serviceRepo.FindRecent(limit)
	}

	ids, err := s.views.Top(ctx, limit)
	if err != nil {
		logger.Warn("Failed to read trending views, falling back to recent", map[string]interface{}{
			"error": err.Error(),
		})
		return s.serviceRepo.FindRecent(limit)
	}
	if len(ids) == 0 {
		return s.serviceRepo.FindRecent(limit)
	}

	services, err := s.serviceRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	// Preserve the counter's ranking; FindByIDs does not.
	byID := make(map[uint]model.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}
	ordered := make([]model.Service, 0, len(services))
	for _, id := range ids {
		if svc, ok := byID[id]; ok {
			ordered = append(ordered, svc)
		}
	}
	return ordered, nil
}
