package repository

import (
	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/pkg/logger"
	"gorm.io/gorm"
)

type ServiceSort string

const (
	ServiceSortNone          ServiceSort = ""
	ServiceSortRatingAsc     ServiceSort = "rating_asc"
	ServiceSortRatingDesc    ServiceSort = "rating_desc"
	ServiceSortCreatedAtAsc  ServiceSort = "created_at_asc"
	ServiceSortCreatedAtDesc ServiceSort = "created_at_desc"
)

type ServiceFilter struct {
	Search string      // case-insensitive substring on name
	Type   string      // exact match; "all" or empty means no filter
	SortBy ServiceSort // validated by the service layer
	Limit  int
	Offset int
}

type ServiceRepository interface {
	Create(service *model.Service) error
	BulkCreate(services []model.Service, batchSize int) error
	FindWithFilter(filter ServiceFilter) ([]model.Service, int64, error)
	FindAll() ([]model.Service, error)
	FindByID(id uint) (*model.Service, error)
	FindByIDs(ids []uint) ([]model.Service, error)
	FindByOwner(userID uint) ([]model.Service, error)
	FindRecent(limit int) ([]model.Service, error)
	Enrich(services []model.Service) ([]model.Service, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(service *model.Service) error {
	if err := r.db.Create(service).Error; err != nil {
		logger.Error("Failed to create service in database", err, map[string]interface{}{
			"name": service.Name,
			"type": service.Type,
		})
		return err
	}
	return nil
}

// BulkCreate inserts services in batches for the import tool.
func (r *serviceRepository) BulkCreate(services []model.Service, batchSize int) error {
	if err := r.db.CreateInBatches(services, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create services", err, map[string]interface{}{
			"count": len(services),
		})
		return err
	}
	return nil
}

func (r *serviceRepository) filterQuery(filter ServiceFilter) *gorm.DB {
	query := r.db.Model(&model.Service{})
	if filter.Search != "" {
		query = query.Where("LOWER(services.name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.Type != "" && filter.Type != "all" {
		query = query.Where("services.type = ?", filter.Type)
	}
	return query
}

// FindWithFilter returns a filtered, sorted page of services and the count
// of matching rows before pagination.
func (r *serviceRepository) FindWithFilter(filter ServiceFilter) ([]model.Service, int64, error) {
	logger.Debug("Finding services with filter", map[string]interface{}{
		"search":  filter.Search,
		"type":    filter.Type,
		"sort_by": filter.SortBy,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	// Total is independent of sort and pagination.
	var total int64
	if err := r.filterQuery(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count services", err, nil)
		return nil, 0, err
	}

	query := r.filterQuery(filter).Select("services.*")

	switch filter.SortBy {
	case ServiceSortRatingAsc, ServiceSortRatingDesc:
		// The average rating is derived from comments at read time.
		// Services without comments have no average and sort last either
		// direction.
		avgSubquery := r.db.Model(&model.Comment{}).
			Select("comments.service_id, AVG(comments.rating) AS average_rating").
			Group("comments.service_id")
		query = query.Joins("LEFT JOIN (?) AS avg_ratings ON avg_ratings.service_id = services.id", avgSubquery)
		if filter.SortBy == ServiceSortRatingAsc {
			query = query.Order("avg_ratings.average_rating ASC NULLS LAST")
		} else {
			query = query.Order("avg_ratings.average_rating DESC NULLS LAST")
		}
	case ServiceSortCreatedAtAsc:
		query = query.Order("services.created_at ASC")
	case ServiceSortCreatedAtDesc:
		query = query.Order("services.created_at DESC")
	case ServiceSortNone:
		// natural order
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var services []model.Service
	if err := query.Find(&services).Error; err != nil {
		logger.Error("Failed to find services", err, map[string]interface{}{
			"search": filter.Search,
			"type":   filter.Type,
		})
		return nil, 0, err
	}

	services, err := r.Enrich(services)
	if err != nil {
		return nil, 0, err
	}

	logger.Debug("Services found", map[string]interface{}{
		"count": len(services),
		"total": total,
	})
	return services, total, nil
}

func (r *serviceRepository) FindAll() ([]model.Service, error) {
	var services []model.Service
	if err := r.db.Find(&services).Error; err != nil {
		return nil, err
	}
	return r.Enrich(services)
}

func (r *serviceRepository) FindByID(id uint) (*model.Service, error) {
	var service model.Service
	if err := r.db.First(&service, id).Error; err != nil {
		return nil, err
	}

	enriched, err := r.Enrich([]model.Service{service})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

func (r *serviceRepository) FindByIDs(ids []uint) ([]model.Service, error) {
	if len(ids) == 0 {
		return []model.Service{}, nil
	}
	var services []model.Service
	if err := r.db.Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, err
	}
	return r.Enrich(services)
}

func (r *serviceRepository) FindByOwner(userID uint) ([]model.Service, error) {
	var services []model.Service
	err := r.db.Model(&model.Service{}).
		Joins("JOIN own_services ON own_services.service_id = services.id").
		Where("own_services.user_id = ?", userID).
		Find(&services).Error
	if err != nil {
		logger.Error("Failed to find services by owner", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return r.Enrich(services)
}

func (r *serviceRepository) FindRecent(limit int) ([]model.Service, error) {
	var services []model.Service
	err := r.db.Order("created_at DESC").Limit(limit).Find(&services).Error
	if err != nil {
		return nil, err
	}
	return r.Enrich(services)
}

// Enrich attaches image URLs, the main image and the derived average
// rating with one batched query per concern, keyed by the returned ids.
func (r *serviceRepository) Enrich(services []model.Service) ([]model.Service, error) {
	if len(services) == 0 {
		return services, nil
	}

	serviceIDs := make([]uint, len(services))
	serviceIndex := make(map[uint]*model.Service, len(services))
	for i := range services {
		service := &services[i]
		serviceIDs[i] = service.ID
		service.ImageURLs = []string{}
		serviceIndex[service.ID] = service
	}

	var images []model.ServiceImage
	if err := r.db.Where("service_id IN ?", serviceIDs).
		Order("id ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}

	for _, image := range images {
		if service, ok := serviceIndex[image.ServiceID]; ok {
			service.ImageURLs = append(service.ImageURLs, image.ImageURL)
			if service.MainImageURL == nil {
				url := image.ImageURL
				service.MainImageURL = &url
			}
		}
	}

	type ratingRow struct {
		ServiceID     uint
		AverageRating float64
	}

	var ratings []ratingRow
	if err := r.db.Model(&model.Comment{}).
		Select("service_id, AVG(rating) AS average_rating").
		Where("service_id IN ?", serviceIDs).
		Group("service_id").
		Scan(&ratings).Error; err != nil {
		return nil, err
	}

	for _, row := range ratings {
		if service, ok := serviceIndex[row.ServiceID]; ok {
			avg := row.AverageRating
			service.AverageRating = &avg
		}
	}

	return services, nil
}
