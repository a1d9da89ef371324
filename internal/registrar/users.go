package registrar

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lanreg/internal/model"
)

const (
	bcryptCost  = 12
	minPassword = 6
)

// Accounts manages user lifecycle and credentials.
type Accounts struct {
	users UserStore
	gate  Gate
	now   func() time.Time
}

func NewAccounts(users UserStore) *Accounts {
	return &Accounts{users: users, now: time.Now}
}

// Register creates a regular user through self-service sign-up.
func (s *Accounts) Register(ctx context.Context, username, password string) (*model.User, error) {
	return s.create(ctx, username, password, model.RoleUser, model.Contact{})
}

// Bootstrap creates the first admin during initial setup. It refuses to
// run once any user exists.
func (s *Accounts) Bootstrap(ctx context.Context, username, password string) (*model.User, error) {
	existing, err := s.users.Users(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, &ForbiddenError{Reason: "setup already completed"}
	}
	return s.create(ctx, username, password, model.RoleAdmin, model.Contact{})
}

// CreateUserInput is the admin-side creation payload.
type CreateUserInput struct {
	Username string        `json:"username"`
	Password string        `json:"password"`
	Role     string        `json:"role"`
	Contact  model.Contact `json:"contact"`
}

// Create adds a user with an explicit role and contact block. Admin only.
func (s *Accounts) Create(ctx context.Context, req Requester, in CreateUserInput) (*model.User, error) {
	if err := s.gate.AdminOnly(req).Err(); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return nil, &ValidationError{Entity: "user", Field: "role", Reason: "must be admin or user"}
	}
	return s.create(ctx, in.Username, in.Password, role, in.Contact)
}

func (s *Accounts) create(ctx context.Context, username, password, role string, contact model.Contact) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Entity: "user", Field: "username", Reason: "must not be empty"}
	}
	if len(password) < minPassword {
		return nil, &ValidationError{Entity: "user", Field: "password", Reason: "must be at least 6 characters"}
	}
	if err := ValidateContact("user", contact); err != nil {
		return nil, err
	}

	if existing, err := s.users.UserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &ConflictError{Entity: "user", Field: "username", Value: username}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &model.User{
		Username:   username,
		PassHash:   string(hash),
		Role:       role,
		AuthSource: "local",
		Contact:    contact,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List returns all users. Admin only; hashes are stripped.
func (s *Accounts) List(ctx context.Context, req Requester) ([]model.User, error) {
	if err := s.gate.AdminOnly(req).Err(); err != nil {
		return nil, err
	}
	users, err := s.users.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PassHash = ""
	}
	return users, nil
}

// Get returns one user: admins see anyone, users only themselves.
func (s *Accounts) Get(ctx context.Context, req Requester, id int64) (*model.User, error) {
	if err := s.gate.UserAccess(req, id).Err(); err != nil {
		return nil, err
	}
	u, err := s.users.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	u.PassHash = ""
	return u, nil
}

// UserPatch is a partial user update. Role changes are admin only, and
// the last admin can never be demoted.
type UserPatch struct {
	Role     *string      `json:"role"`
	Password *string      `json:"password"`
	Contact  ContactPatch `json:"contact"`
}

func (s *Accounts) Update(ctx context.Context, req Requester, id int64, patch UserPatch) (*model.User, error) {
	if err := s.gate.UserAccess(req, id).Err(); err != nil {
		return nil, err
	}
	u, err := s.users.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}

	if patch.Role != nil && *patch.Role != u.Role {
		if err := s.gate.AdminOnly(req).Err(); err != nil {
			return nil, err
		}
		if *patch.Role != model.RoleAdmin && *patch.Role != model.RoleUser {
			return nil, &ValidationError{Entity: "user", Field: "role", Reason: "must be admin or user"}
		}
		if u.Role == model.RoleAdmin {
			if err := s.requireSpareAdmin(ctx, "cannot demote the last admin"); err != nil {
				return nil, err
			}
		}
		u.Role = *patch.Role
	}

	if patch.Password != nil {
		if len(*patch.Password) < minPassword {
			return nil, &ValidationError{Entity: "user", Field: "password", Reason: "must be at least 6 characters"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		u.PassHash = string(hash)
	}

	applyContactPatch(&u.Contact, patch.Contact)
	if err := ValidateContact("user", u.Contact); err != nil {
		return nil, err
	}

	u.UpdatedAt = s.now().UTC()
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	out := *u
	out.PassHash = ""
	return &out, nil
}

// Delete removes a user. Admin only, never self-service, and never the
// last admin.
func (s *Accounts) Delete(ctx context.Context, req Requester, id int64) error {
	if err := s.gate.UserDelete(req, id).Err(); err != nil {
		return err
	}
	u, err := s.users.UserByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return &NotFoundError{Entity: "user", ID: id}
	}
	if u.Role == model.RoleAdmin {
		if err := s.requireSpareAdmin(ctx, "cannot delete the last admin"); err != nil {
			return err
		}
	}
	return s.users.DeleteUser(ctx, id)
}

func (s *Accounts) requireSpareAdmin(ctx context.Context, reason string) error {
	n, err := s.users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return &ForbiddenError{Reason: reason}
	}
	return nil
}

// Authenticate verifies a local credential. It returns (nil, nil) on a
// bad username or password so callers cannot distinguish the two.
func (s *Accounts) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.UserByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)) != nil {
		return nil, nil
	}
	return u, nil
}
