package authz

import "fmt"

// RoleSeed describes one builtin role.
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds returns the builtin back-office role matrix.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "editorial",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/magazines", Action: "*"},
				{Object: "/admin/magazines/:id", Action: "*"},
				{Object: "/admin/magazines/:id/editions", Action: "*"},
				{Object: "/admin/editions/:id", Action: "*"},
				{Object: "/admin/editions/:id/publish", Action: "POST"},
				{Object: "/admin/plans", Action: "*"},
				{Object: "/admin/plans/:id", Action: "*"},
				{Object: "/admin/plan-prices", Action: "*"},
				{Object: "/admin/plan-prices/:id", Action: "*"},
				{Object: "/admin/coupons", Action: "*"},
				{Object: "/admin/coupons/:id", Action: "*"},
				{Object: "/admin/upload", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "verification_desk",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/edition-orders", Action: "GET"},
				{Object: "/admin/proofs", Action: "GET"},
				{Object: "/admin/proofs/:id/verify", Action: "POST"},
				{Object: "/admin/edition-proofs/:id/verify", Action: "POST"},
				{Object: "/admin/payments", Action: "GET"},
				{Object: "/admin/payments/:id", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "dispatch_desk",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/dispatches", Action: "GET"},
				{Object: "/admin/dispatches/:id", Action: "PATCH"},
				{Object: "/admin/dispatches/assign", Action: "POST"},
				{Object: "/admin/subscriptions", Action: "GET"},
				{Object: "/admin/subscriptions/:id", Action: "GET"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles seeds builtin roles and their default policies.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
