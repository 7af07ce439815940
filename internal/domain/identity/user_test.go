package identity

import (
	"testing"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Alice.B ", "secret123", "Alice Brown", RoleSalesAssociate)
	require.NoError(t, err)

	assert.Equal(t, "alice.b", u.Username)
	assert.Equal(t, UserStatusActive, u.Status)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, u.VerifyPassword("secret123"))
	assert.False(t, u.VerifyPassword("secret124"))
	assert.True(t, u.IsHourly())
	assert.Equal(t, 1, u.Version)
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		fullName string
		role     Role
		code     string
	}{
		{"short username", "ab", "secret123", "A", RoleSalesAssociate, "INVALID_USERNAME"},
		{"bad username chars", "a b c", "secret123", "A", RoleSalesAssociate, "INVALID_USERNAME"},
		{"short password", "alice", "s3cret", "A", RoleSalesAssociate, "INVALID_PASSWORD"},
		{"password without digit", "alice", "secretsecret", "A", RoleSalesAssociate, "INVALID_PASSWORD"},
		{"empty name", "alice", "secret123", " ", RoleSalesAssociate, "INVALID_FULL_NAME"},
		{"unknown role", "alice", "secret123", "A", Role("CEO"), "INVALID_ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.password, tt.fullName, tt.role)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestUser_StoreAssignment(t *testing.T) {
	u, err := NewUser("bob", "secret123", "Bob", RoleShiftLeader)
	require.NoError(t, err)

	assert.Error(t, u.AssignStore(nil))

	storeID := uuid.New()
	require.NoError(t, u.AssignStore(&storeID))
	assert.True(t, u.BelongsTo(storeID))
	assert.False(t, u.BelongsTo(uuid.New()))

	require.NoError(t, u.ChangeRole(RoleStoreManager))
	assert.False(t, u.IsHourly())

	require.NoError(t, u.ChangeRole(RoleDistrictManager))
	require.NoError(t, u.AssignStore(nil))
	assert.Error(t, u.ChangeRole(RoleSalesAssociate))
}

func TestUser_SetCompensation(t *testing.T) {
	u, err := NewUser("carol", "secret123", "Carol", RoleSalesAssociate)
	require.NoError(t, err)

	err = u.SetCompensation(Compensation{
		HourlyWage:     decimal.RequireFromString("17.25"),
		CommissionRate: decimal.RequireFromString("0.03"),
	})
	require.NoError(t, err)
	assert.True(t, u.HourlyWage.Equal(decimal.RequireFromString("17.25")))

	assert.Error(t, u.SetCompensation(Compensation{CommissionRate: decimal.RequireFromString("1.5")}))
	assert.Error(t, u.SetCompensation(Compensation{HourlyWage: decimal.NewFromInt(-1)}))
}

func TestUser_PasswordAndStatus(t *testing.T) {
	u, err := NewUser("dave", "secret123", "Dave", RoleSalesAssociate)
	require.NoError(t, err)

	assert.Error(t, u.ChangePassword("wrong123", "newpass456"))
	require.NoError(t, u.ChangePassword("secret123", "newpass456"))
	assert.True(t, u.VerifyPassword("newpass456"))

	assert.Error(t, u.Activate())
	require.NoError(t, u.Deactivate())
	assert.False(t, u.IsActive())
	assert.Error(t, u.Deactivate())
}

func TestUser_SetEmail(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetEmail(" Eve@Example.COM "))
	assert.Equal(t, "eve@example.com", u.Email)
	assert.Error(t, u.SetEmail("not-an-email"))
	require.NoError(t, u.SetEmail(""))
}
