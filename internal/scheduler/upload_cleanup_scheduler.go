package scheduler

import (
	"path"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/storage"
	"github.com/hndang/servihub-backend/pkg/logger"
)

// UploadCleanupScheduler removes files from the local upload directory that
// no service image row references anymore. Orphans appear when an upload
// succeeds but the client never attaches the URL to a service, or when a
// service is deleted.
type UploadCleanupScheduler struct {
	cron    *cron.Cron
	db      *gorm.DB
	storage *storage.LocalStorage
}

func NewUploadCleanupScheduler(db *gorm.DB, localStorage *storage.LocalStorage) *UploadCleanupScheduler {
	return &UploadCleanupScheduler{
		cron:    cron.New(),
		db:      db,
		storage: localStorage,
	}
}

// Start registers the nightly cleanup run.
func (s *UploadCleanupScheduler) Start() error {
	// Daily at 4:00 AM, when upload traffic is lowest
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled upload cleanup", nil)

		removed, err := s.RunOnce()
		if err != nil {
			logger.Error("Failed to clean up orphaned uploads", err)
			return
		}

		logger.Info("Finished upload cleanup", map[string]interface{}{
			"removed": removed,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for upload cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Upload cleanup scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

// Stop halts the scheduler.
func (s *UploadCleanupScheduler) Stop() {
	logger.Info("Stopping upload cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Upload cleanup scheduler stopped", nil)
}

// RunOnce deletes every stored file that no service image references and
// returns the number of files removed.
func (s *UploadCleanupScheduler) RunOnce() (int, error) {
	var urls []string
	if err := s.db.Model(&model.ServiceImage{}).Pluck("image_url", &urls).Error; err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[path.Base(u)] = struct{}{}
	}

	files, err := s.storage.ListFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range files {
		if _, ok := referenced[name]; ok {
			continue
		}
		if err := s.storage.Remove(name); err != nil {
			logger.Warn("Failed to remove orphaned upload", map[string]interface{}{
				"file":  name,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}

	return removed, nil
}
