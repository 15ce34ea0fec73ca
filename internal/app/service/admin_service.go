package service

import (
	"fmt"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// DashboardStats feeds the admin dashboard counters.
type DashboardStats struct {
	UserCount     int64 `json:"user_count"`
	ServiceCount  int64 `json:"service_count"`
	CommentCount  int64 `json:"comment_count"`
	FavoriteCount int64 `json:"favorite_count"`
}

type AdminService interface {
	GetStats() (*DashboardStats, error)
	ExportServices() (*excelize.File, error)
}

type adminService struct {
	serviceRepo repository.ServiceRepository
	db          *gorm.DB
}

func NewAdminService(serviceRepo repository.ServiceRepository, db *gorm.DB) AdminService {
	return &adminService{
		serviceRepo: serviceRepo,
		db:          db,
	}
}

func (s *adminService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&model.User{}).Count(&stats.UserCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Service{}).Count(&stats.ServiceCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Comment{}).Count(&stats.CommentCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Favorite{}).Count(&stats.FavoriteCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// ExportServices builds an xlsx workbook of the full catalog with the
// derived average rating per service.
func (s *adminService) ExportServices() (*excelize.File, error) {
	services, err := s.serviceRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Services"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Type", "Address", "Phone", "Website", "Email", "Average Rating", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, svc := range services {
		values := []interface{}{
			svc.ID,
			svc.Name,
			svc.Type,
			svc.Address,
			svc.Phone,
			svc.Website,
			svc.Email,
			"", // no comments -> no average
			svc.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if svc.AverageRating != nil {
			values[7] = fmt.Sprintf("%.2f", *svc.AverageRating)
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"service_count": len(services),
	})
	return f, nil
}
