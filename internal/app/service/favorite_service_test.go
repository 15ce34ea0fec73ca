package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/internal/db"
)

func setupFavoriteServiceTest(t *testing.T) (*gorm.DB, FavoriteService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	svc := NewFavoriteService(
		repository.NewFavoriteRepository(testDB),
		repository.NewServiceRepository(testDB),
	)
	return testDB, svc
}

func TestFavoriteService_CreateFavorite(t *testing.T) {
	testDB, svc := setupFavoriteServiceTest(t)
	defer db.CleanupTestDB(testDB)

	principal := newTestUserPrincipal(t, testDB, "alice")
	target := &model.Service{Name: "Clinic", Type: "healthcare"}
	require.NoError(t, testDB.Create(target).Error)

	favorite, err := svc.CreateFavorite(principal.ID, target.ID)
	require.NoError(t, err)
	assert.NotZero(t, favorite.ID)

	_, err = svc.CreateFavorite(principal.ID, target.ID)
	assert.ErrorIs(t, err, ErrFavoriteExists)

	_, err = svc.CreateFavorite(principal.ID, 9999)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestFavoriteService_GetFavorite(t *testing.T) {
	testDB, svc := setupFavoriteServiceTest(t)
	defer db.CleanupTestDB(testDB)

	principal := newTestUserPrincipal(t, testDB, "alice")
	target := &model.Service{Name: "Clinic", Type: "healthcare"}
	require.NoError(t, testDB.Create(target).Error)

	created, err := svc.CreateFavorite(principal.ID, target.ID)
	require.NoError(t, err)

	found, err := svc.GetFavorite(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clinic", found.Service.Name)

	_, err = svc.GetFavorite(9999)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestFavoriteService_DeleteFavorite_OwnershipEnforced(t *testing.T) {
	testDB, svc := setupFavoriteServiceTest(t)
	defer db.CleanupTestDB(testDB)

	alice := newTestUserPrincipal(t, testDB, "alice")
	bob := newTestUserPrincipal(t, testDB, "bob")
	target := &model.Service{Name: "Clinic", Type: "healthcare"}
	require.NoError(t, testDB.Create(target).Error)

	created, err := svc.CreateFavorite(alice.ID, target.ID)
	require.NoError(t, err)

	// Somebody else's favorite looks like it does not exist
	assert.ErrorIs(t, svc.DeleteFavorite(created.ID, bob.ID), ErrFavoriteNotFound)

	require.NoError(t, svc.DeleteFavorite(created.ID, alice.ID))

	favorites, err := svc.ListByUser(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
