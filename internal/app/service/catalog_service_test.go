package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/internal/db"
	"github.com/hndang/servihub-backend/pkg/util"
)

// fakeViewCounter records increments and serves a fixed ranking.
type fakeViewCounter struct {
	increments []uint
	ranking    []uint
}

func (f *fakeViewCounter) Increment(_ context.Context, serviceID uint) error {
	f.increments = append(f.increments, serviceID)
	return nil
}

func (f *fakeViewCounter) Top(_ context.Context, n int) ([]uint, error) {
	if n > len(f.ranking) {
		n = len(f.ranking)
	}
	return f.ranking[:n], nil
}

func setupCatalogTest(t *testing.T) (*gorm.DB, CatalogService, *fakeViewCounter) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	views := &fakeViewCounter{}
	svc := NewCatalogService(repository.NewServiceRepository(testDB), testDB, views)
	return testDB, svc, views
}

func newTestUserPrincipal(t *testing.T, testDB *gorm.DB, username string) *Principal {
	user := &model.User{
		Username:     username,
		PasswordHash: "x",
		FullName:     "Test User",
		Role:         "user",
	}
	require.NoError(t, testDB.Create(user).Error)
	return &Principal{
		ID:       user.ID,
		Username: user.Username,
		Kind:     util.PrincipalUser,
		Role:     user.Role,
	}
}

func TestCatalogService_ListServices_SortValidation(t *testing.T) {
	testDB, svc, _ := setupCatalogTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.ListServices("", "all", "by_popularity", 1, 8)
	assert.ErrorIs(t, err, ErrInvalidSort)

	for _, sort := range []string{"", "rating_asc", "rating_desc", "created_at_asc", "created_at_desc"} {
		_, _, err := svc.ListServices("", "all", sort, 1, 8)
		assert.NoError(t, err, "sort %q should be accepted", sort)
	}
}

func TestCatalogService_ListServices_PageClamping(t *testing.T) {
	testDB, svc, _ := setupCatalogTest(t)
	defer db.CleanupTestDB(testDB)

	principal := newTestUserPrincipal(t, testDB, "owner")
	for i := 0; i < 10; i++ {
		_, err := svc.CreateService(principal, ServiceInput{Name: "Service", Type: "misc"})
		require.NoError(t, err)
	}

	// Zero page and limit fall back to the defaults
	services, total, err := svc.ListServices("", "all", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Len(t, services, DefaultPageSize)

	// Oversized limit is capped
	services, _, err = svc.ListServices("", "all", "", 1, MaxPageSize+50)
	require.NoError(t, err)
	assert.Len(t, services, 10)

	// Second page holds the remainder
	services, _, err = svc.ListServices("", "all", "", 2, 8)
	require.NoError(t, err)
	assert.Len(t, services, 2)
}

func TestCatalogService_CreateService(t *testing.T) {
	testDB, svc, _ := setupCatalogTest(t)
	defer db.CleanupTestDB(testDB)

	principal := newTestUserPrincipal(t, testDB, "owner")

	created, err := svc.CreateService(principal, ServiceInput{
		Name:      "Clinic A",
		Type:      "healthcare",
		Address:   "12 Main Street",
		ImageURLs: []string{"/uploads/front.jpg", "/uploads/side.jpg"},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.MainImageURL)
	assert.Equal(t, "/uploads/front.jpg", *created.MainImageURL)

	// Ownership link and images are written with the service
	var ownCount, imageCount int64
	require.NoError(t, testDB.Model(&model.OwnService{}).Where("service_id = ?", created.ID).Count(&ownCount).Error)
	require.NoError(t, testDB.Model(&model.ServiceImage{}).Where("service_id = ?", created.ID).Count(&imageCount).Error)
	assert.Equal(t, int64(1), ownCount)
	assert.Equal(t, int64(2), imageCount)

	owned, err := svc.ListMyServices(principal.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Clinic A", owned[0].Name)
}

func TestCatalogService_CreateService_AdminRejected(t *testing.T) {
	testDB, svc, _ := setupCatalogTest(t)
	defer db.CleanupTestDB(testDB)

	admin := &Principal{ID: 1, Username: "root", Kind: util.PrincipalAdmin}
	_, err := svc.CreateService(admin, ServiceInput{Name: "Clinic", Type: "misc"})
	assert.ErrorIs(t, err, ErrAdminCannotOwn)
}

func TestCatalogService_GetService(t *testing.T) {
	testDB, svc, views := setupCatalogTest(t)
	defer db.CleanupTestDB(testDB)

	principal := newTestUserPrincipal(t, testDB, "owner")
	created, err := svc.CreateService(principal, ServiceInput{Name: "Clinic", Type: "misc"})
	require.NoError(t, err)

	found, err := svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clinic", found.Name)

	// A detail read counts as a view
	assert.Equal(t, []uint{created.ID}, views.increments)

	_, err = svc.GetService(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCatalogService_DeleteService_Cascade(t *testing.T) {
	testDB, svc, _ := setupCatalogTest(t)
	defer db.CleanupTestDB(testDB)

	owner := newTestUserPrincipal(t, testDB, "owner")
	visitor := newTestUserPrincipal(t, testDB, "visitor")

	created, err := svc.CreateService(owner, ServiceInput{
		Name:      "Clinic",
		Type:      "misc",
		ImageURLs: []string{"/uploads/a.jpg"},
	})
	require.NoError(t, err)

	require.NoError(t, testDB.Create(&model.Comment{
		ServiceID: created.ID, UserID: visitor.ID, Content: "fine", Rating: 3,
	}).Error)
	require.NoError(t, testDB.Create(&model.Favorite{
		UserID: visitor.ID, ServiceID: created.ID,
	}).Error)

	require.NoError(t, svc.DeleteService(created.ID))

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"services", &model.Service{}},
		{"service_images", &model.ServiceImage{}},
		{"comments", &model.Comment{}},
		{"favorites", &model.Favorite{}},
		{"own_services", &model.OwnService{}},
	} {
		var count int64
		require.NoError(t, testDB.Model(check.model).Count(&count).Error)
		assert.Zero(t, count, "expected %s to be empty", check.name)
	}

	assert.ErrorIs(t, svc.DeleteService(created.ID), ErrServiceNotFound)
}

func TestCatalogService_Trending(t *testing.T) {
	testDB, svc, views := setupCatalogTest(t)
	defer db.CleanupTestDB(testDB)

	principal := newTestUserPrincipal(t, testDB, "owner")
	first, err := svc.CreateService(principal, ServiceInput{Name: "First", Type: "misc"})
	require.NoError(t, err)
	second, err := svc.CreateService(principal, ServiceInput{Name: "Second", Type: "misc"})
	require.NoError(t, err)

	views.ranking = []uint{second.ID, first.ID}

	services, err := svc.Trending(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, services, 2)

	// Counter ranking is preserved
	assert.Equal(t, "Second", services[0].Name)
	assert.Equal(t, "First", services[1].Name)
}

func TestCatalogService_Trending_FallbackWithoutCounter(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	svc := NewCatalogService(repository.NewServiceRepository(testDB), testDB, nil)

	principal := newTestUserPrincipal(t, testDB, "owner")
	_, err = svc.CreateService(principal, ServiceInput{Name: "Only", Type: "misc"})
	require.NoError(t, err)

	services, err := svc.Trending(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Only", services[0].Name)
}
