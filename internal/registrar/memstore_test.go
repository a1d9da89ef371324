package registrar

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lanreg/internal/model"
)

// memStore is an in-memory stand-in for the postgres layer. It mirrors
// the store contract: (nil, nil) for missing rows, ConflictError on
// duplicate domain names and usernames, atomic cascade on DeleteDomain.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	domains map[int64]model.Domain
	records map[int64]model.DNSRecord
	users   map[int64]model.User
	cfg     *model.RegistrarConfig
}

func newMemStore() *memStore {
	return &memStore{
		domains: make(map[int64]model.Domain),
		records: make(map[int64]model.DNSRecord),
		users:   make(map[int64]model.User),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateDomain(_ context.Context, d *model.Domain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.domains {
		if strings.EqualFold(existing.Name, d.Name) {
			return &ConflictError{Entity: "domain", Field: "name", Value: d.Name}
		}
	}
	d.ID = m.id()
	m.domains[d.ID] = *d
	return nil
}

func (m *memStore) DomainByID(_ context.Context, id int64) (*model.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.domains[id]; ok {
		out := d
		return &out, nil
	}
	return nil, nil
}

func (m *memStore) DomainByName(_ context.Context, name string) (*model.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.domains {
		if strings.EqualFold(d.Name, name) {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) Domains(_ context.Context) ([]model.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Domain
	for _, d := range m.domains {
		out = append(out, d)
	}
	sortDomains(out)
	return out, nil
}

func (m *memStore) DomainsByOwner(_ context.Context, ownerID int64) ([]model.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Domain
	for _, d := range m.domains {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sortDomains(out)
	return out, nil
}

func sortDomains(ds []model.Domain) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].CreatedAt.Equal(ds[j].CreatedAt) {
			return ds[i].ID < ds[j].ID
		}
		return ds[i].CreatedAt.Before(ds[j].CreatedAt)
	})
}

func (m *memStore) UpdateDomainContacts(_ context.Context, d *model.Domain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domains[d.ID] = *d
	return nil
}

func (m *memStore) DeleteDomain(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.domains, id)
	for rid, rec := range m.records {
		if rec.DomainID == id {
			delete(m.records, rid)
		}
	}
	return nil
}

func (m *memStore) CreateRecord(_ context.Context, rec *model.DNSRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.id()
	m.records[rec.ID] = *rec
	return nil
}

func (m *memStore) RecordByID(_ context.Context, id int64) (*model.DNSRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		out := r
		return &out, nil
	}
	return nil, nil
}

func (m *memStore) RecordsByDomain(_ context.Context, domainID int64) ([]model.DNSRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DNSRecord
	for _, r := range m.records {
		if r.DomainID == domainID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateRecord(_ context.Context, rec *model.DNSRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = *rec
	return nil
}

func (m *memStore) DeleteRecord(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return &ConflictError{Entity: "user", Field: "username", Value: u.Username}
		}
	}
	u.ID = m.id()
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) UserByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}

func (m *memStore) UserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) Users(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *memStore) CountAdmins(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.Role == model.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (m *memStore) RegistrarConfig(_ context.Context) (*model.RegistrarConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return nil, nil
	}
	out := *m.cfg
	return &out, nil
}

func (m *memStore) SaveRegistrarConfig(_ context.Context, cfg *model.RegistrarConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cfg
	m.cfg = &c
	return nil
}

// addUser seeds a user bypassing credential checks.
func (m *memStore) addUser(username, role string, contact model.Contact) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := model.User{Username: username, Role: role, Contact: contact, AuthSource: "local"}
	u.ID = m.id()
	m.users[u.ID] = u
	return u
}
