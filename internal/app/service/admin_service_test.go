package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/internal/db"
)

func TestAdminService_GetStats(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	svc := NewAdminService(repository.NewServiceRepository(testDB), testDB)

	alice := newTestUserPrincipal(t, testDB, "alice")
	target := &model.Service{Name: "Clinic", Type: "healthcare"}
	require.NoError(t, testDB.Create(target).Error)
	require.NoError(t, testDB.Create(&model.Comment{ServiceID: target.ID, UserID: alice.ID, Content: "x", Rating: 4}).Error)
	require.NoError(t, testDB.Create(&model.Favorite{UserID: alice.ID, ServiceID: target.ID}).Error)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.UserCount)
	assert.Equal(t, int64(1), stats.ServiceCount)
	assert.Equal(t, int64(1), stats.CommentCount)
	assert.Equal(t, int64(1), stats.FavoriteCount)
}

func TestAdminService_ExportServices(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	svc := NewAdminService(repository.NewServiceRepository(testDB), testDB)

	alice := newTestUserPrincipal(t, testDB, "alice")
	rated := &model.Service{Name: "Rated", Type: "misc"}
	unrated := &model.Service{Name: "Unrated", Type: "misc"}
	require.NoError(t, testDB.Create(rated).Error)
	require.NoError(t, testDB.Create(unrated).Error)
	require.NoError(t, testDB.Create(&model.Comment{ServiceID: rated.ID, UserID: alice.ID, Content: "x", Rating: 4}).Error)

	f, err := svc.ExportServices()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Services")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two services

	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Rated", rows[1][1])
	assert.Equal(t, "4.00", rows[1][7])
	assert.Equal(t, "Unrated", rows[2][1])
}
