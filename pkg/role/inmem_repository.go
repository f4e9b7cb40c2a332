package role

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage
type InMemoryRoleRepository struct {
	mu     sync.RWMutex
	roles  map[uuid.UUID]Role // roleID -> Role
	byName map[Name]uuid.UUID // name -> roleID
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles:  make(map[uuid.UUID]Role),
		byName: make(map[Name]uuid.UUID),
	}
}

// FindByName retrieves a role by name
func (r *InMemoryRoleRepository) FindByName(ctx context.Context, name Name) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return r.roles[id], nil
}

// Save stores a new role. The name check and insert happen under one lock,
// so two concurrent saves of the same name produce exactly one record.
func (r *InMemoryRoleRepository) Save(ctx context.Context, role Role) (Role, error) {
	if !role.Name.Valid() {
		return Role{}, invalidRoleError(role.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[role.Name]; ok {
		return Role{}, ErrRoleExists
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	r.roles[role.ID] = role
	r.byName[role.Name] = role.ID
	return role, nil
}

// FindRoles returns all roles ordered by name
func (r *InMemoryRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// Delete removes the role; a missing ID is not an error
func (r *InMemoryRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role, ok := r.roles[id]; ok {
		delete(r.byName, role.Name)
		delete(r.roles, id)
	}
	return nil
}

// SeedRole adds a role directly (for testing/initialization)
func (r *InMemoryRoleRepository) SeedRole(role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.ID] = role
	r.byName[role.Name] = role.ID
}
