package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func createTestUser(t *testing.T) *User {
	user, err := NewUser("asha@example.com", "Asha Rao", "s3cret-pass")
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active customer", func(t *testing.T) {
		user := createTestUser(t)

		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.True(t, user.IsActive())
		assert.False(t, user.IsEmailVerified)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	})

	t.Run("lowercases email", func(t *testing.T) {
		user, err := NewUser("Asha@Example.COM", "Asha Rao", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", user.Email)
	})

	t.Run("rejects invalid emails", func(t *testing.T) {
		for _, email := range []string{"", "no-at-sign", "@example.com", "asha@", "asha@nodot"} {
			_, err := NewUser(email, "Asha Rao", "s3cret-pass")
			assertDomainCode(t, err, "INVALID_EMAIL")
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("asha@example.com", "Asha Rao", "short")
		assertDomainCode(t, err, "INVALID_PASSWORD")
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user := createTestUser(t)

	assert.True(t, user.VerifyPassword("s3cret-pass"))
	assert.False(t, user.VerifyPassword("wrong-pass"))
}

func TestUser_ChangePassword(t *testing.T) {
	user := createTestUser(t)

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := user.ChangePassword("wrong-pass", "new-password")
		assertDomainCode(t, err, "INVALID_PASSWORD")
	})

	t.Run("changes with correct current password", func(t *testing.T) {
		require.NoError(t, user.ChangePassword("s3cret-pass", "new-password"))
		assert.True(t, user.VerifyPassword("new-password"))
		assert.False(t, user.VerifyPassword("s3cret-pass"))
	})
}

func TestUser_SetRole(t *testing.T) {
	user := createTestUser(t)

	require.NoError(t, user.SetRole(RoleSeller))
	assert.Equal(t, RoleSeller, user.Role)

	err := user.SetRole(UserRole("superuser"))
	assertDomainCode(t, err, "INVALID_ROLE")
}

func TestUser_ActivateDeactivate(t *testing.T) {
	user := createTestUser(t)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.IsActive())

	err := user.Deactivate()
	assertDomainCode(t, err, "ALREADY_INACTIVE")

	require.NoError(t, user.Activate())
	assert.True(t, user.IsActive())
}
