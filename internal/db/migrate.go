package db

import (
	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/pkg/logger"
	"github.com/hndang/servihub-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Admin{},
		&model.Service{},
		&model.ServiceImage{},
		&model.Comment{},
		&model.OwnService{},
		&model.Favorite{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedDefaultAdmin creates the bootstrap administrator account when no
// admin exists yet. Credentials come from the environment; skipped when
// unset.
func SeedDefaultAdmin(username, password string) error {
	if username == "" || password == "" {
		logger.Info("No bootstrap admin configured, skipping")
		return nil
	}

	var count int64
	if err := DB.Model(&model.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Admin account already present, skipping bootstrap", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	if err := DB.Create(&admin).Error; err != nil {
		logger.Error("Failed to create bootstrap admin", err)
		return err
	}

	logger.Info("Bootstrap admin created", map[string]interface{}{
		"username": username,
	})
	return nil
}
