package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&identity.User{})
	require.NoError(t, err)

	return db
}

func newStoredUser(t *testing.T, repo *GormUserRepository, email string, role identity.UserRole) *identity.User {
	t.Helper()

	user, err := identity.NewUser(email, "Test User", "s3cretpass")
	require.NoError(t, err)
	require.NoError(t, user.SetRole(role))
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestUserRepository_SaveAndFindByID(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newStoredUser(t, repo, "alice@example.com", identity.RoleCustomer)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "alice@example.com", found.Email)
	assert.Equal(t, identity.UserStatusActive, found.Status)
}

func TestUserRepository_FindByEmail_CaseInsensitive(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newStoredUser(t, repo, "bob@example.com", identity.RoleCustomer)

	found, err := repo.FindByEmail(ctx, "Bob@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserRepository_FindByRole(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	newStoredUser(t, repo, "c1@example.com", identity.RoleCustomer)
	newStoredUser(t, repo, "c2@example.com", identity.RoleCustomer)
	newStoredUser(t, repo, "admin@example.com", identity.RoleAdmin)

	customers, err := repo.FindByRole(ctx, identity.RoleCustomer, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	count, err := repo.CountByRole(ctx, identity.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUserRepository_CountCreatedSince(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	recent := newStoredUser(t, repo, "new@example.com", identity.RoleCustomer)

	old := newStoredUser(t, repo, "old@example.com", identity.RoleCustomer)
	err := db.Model(&identity.User{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-60*24*time.Hour)).Error
	require.NoError(t, err)

	count, err := repo.CountCreatedSince(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByID(ctx, recent.ID)
	require.NoError(t, err)
	assert.Equal(t, recent.Email, found.Email)
}

func TestUserRepository_Search(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	newStoredUser(t, repo, "carol@example.com", identity.RoleCustomer)
	newStoredUser(t, repo, "dave@example.com", identity.RoleCustomer)

	users, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "carol"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol@example.com", users[0].Email)
}

func TestUserRepository_Delete(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newStoredUser(t, repo, "gone@example.com", identity.RoleCustomer)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}
