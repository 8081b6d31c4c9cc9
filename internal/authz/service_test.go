package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/identity"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	svc, err := NewService(db)
	require.NoError(t, err)
	require.NoError(t, svc.BootstrapBuiltinRoles())
	return svc
}

func TestAdminRoleCanManageOrders(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	admin := &identity.Identity{UserID: 1, Role: constants.RoleAdmin}

	ok, err := svc.EnforceIdentity(admin, "/api/v1/admin/orders/42/status", "patch")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.EnforceIdentity(admin, "/api/v1/admin/discounts", "POST")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCustomerAndAnonymousAreDenied(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	ok, err := svc.EnforceIdentity(&identity.Identity{UserID: 2, Role: constants.RoleCustomer}, ObjectOrderStatus, ActionUpdate)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.EnforceIdentity(nil, ObjectOrderStatus, ActionUpdate)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectUserRoleAssignment(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	require.NoError(t, svc.GrantRolePolicy("support", "/admin/orders", "GET"))
	require.NoError(t, svc.AssignUserRole(7, "support"))

	customer := &identity.Identity{UserID: 7, Role: constants.RoleCustomer}
	ok, err := svc.EnforceIdentity(customer, "/api/v1/admin/orders", "GET")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.EnforceIdentity(customer, "/api/v1/admin/orders", "DELETE")
	require.NoError(t, err)
	assert.False(t, ok)

	policies, err := svc.RolePolicies("support")
	require.NoError(t, err)
	assert.Len(t, policies, 1)
}

func TestNormalize(t *testing.T) {
	role, err := NormalizeRole(" admin ")
	require.NoError(t, err)
	assert.Equal(t, "role:ADMIN", role)
	_, err = NormalizeRole("role:")
	assert.Error(t, err)

	assert.Equal(t, "/admin/orders", NormalizeObject("/api/v1/admin/orders"))
	assert.Equal(t, "/", NormalizeObject("/api/v1"))
	assert.Equal(t, "/x", NormalizeObject("x"))
}
