package registrar

import (
	"testing"

	"lanreg/internal/model"
)

func TestGateDecisions(t *testing.T) {
	var g Gate
	admin := Requester{UserID: 1, Role: model.RoleAdmin}
	owner := Requester{UserID: 2, Role: model.RoleUser}
	stranger := Requester{UserID: 3, Role: model.RoleUser}

	cases := []struct {
		name    string
		d       Decision
		allowed bool
	}{
		{"admin touches any domain", g.DomainAccess(admin, 2), true},
		{"owner touches own domain", g.DomainAccess(owner, 2), true},
		{"stranger denied", g.DomainAccess(stranger, 2), false},
		{"admin-only allows admin", g.AdminOnly(admin), true},
		{"admin-only denies user", g.AdminOnly(owner), false},
		{"self access allowed", g.UserAccess(owner, 2), true},
		{"cross-user access denied", g.UserAccess(owner, 3), false},
		{"admin may delete others", g.UserDelete(admin, 2), true},
		{"admin may not delete self", g.UserDelete(admin, 1), false},
		{"user may not delete anyone", g.UserDelete(owner, 3), false},
	}
	for _, tc := range cases {
		if tc.d.Allowed != tc.allowed {
			t.Errorf("%s: got %v (%s)", tc.name, tc.d.Allowed, tc.d.Reason)
		}
		err := tc.d.Err()
		if tc.allowed && err != nil {
			t.Errorf("%s: Err() = %v, want nil", tc.name, err)
		}
		if !tc.allowed && !IsForbidden(err) {
			t.Errorf("%s: Err() = %v, want ForbiddenError", tc.name, err)
		}
	}
}
