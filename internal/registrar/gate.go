package registrar

import "lanreg/internal/model"

// Requester is the authenticated identity attached to every call,
// supplied by the session or token layer.
type Requester struct {
	UserID int64
	Role   string
}

func (r Requester) IsAdmin() bool { return r.Role == model.RoleAdmin }

// Decision is a tagged allow/deny result. A denied decision carries the
// reason shown to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denial into a ForbiddenError, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &ForbiddenError{Reason: d.Reason}
}

// Gate is the single role-based filter consulted before every mutating
// or listing operation. Checks never have side effects.
type Gate struct{}

// DomainAccess allows the domain's owner and admins. It covers reads
// and mutations of a domain and of the records underneath it.
func (Gate) DomainAccess(r Requester, ownerID int64) Decision {
	if r.IsAdmin() || r.UserID == ownerID {
		return allow()
	}
	return deny("you do not own this domain")
}

// AdminOnly covers the user list, user mutation by others, and the
// registrar configuration.
func (Gate) AdminOnly(r Requester) Decision {
	if r.IsAdmin() {
		return allow()
	}
	return deny("admin access required")
}

// UserAccess allows admins, and users acting on their own account.
func (Gate) UserAccess(r Requester, targetID int64) Decision {
	if r.IsAdmin() || r.UserID == targetID {
		return allow()
	}
	return deny("admin access required")
}

// UserDelete allows only admins, and never against their own account.
func (Gate) UserDelete(r Requester, targetID int64) Decision {
	if !r.IsAdmin() {
		return deny("admin access required")
	}
	if r.UserID == targetID {
		return deny("cannot delete your own account")
	}
	return allow()
}
