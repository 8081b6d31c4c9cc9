package authz

import (
	"fmt"

	"github.com/elwarcha/gallery/internal/constants"
)

// Objects checked outside of HTTP routing.
const (
	ObjectOrders      = "/admin/orders"
	ObjectOrder       = "/admin/orders/:id"
	ObjectOrderStatus = "/admin/orders/:id/status"
	ActionRead        = "GET"
	ActionUpdate      = "PATCH"
)

// RoleSeed is a built-in role and its policies.
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds returns the default policy matrix.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleAdmin,
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles installs BuiltinRoleSeeds; existing rules are kept.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return nil
}
