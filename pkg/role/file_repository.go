package role

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

const rolesFileName = "roles.json"

// fileRoleData represents all role data stored in the file
type fileRoleData struct {
	Roles map[uuid.UUID]Role `json:"roles"` // keyed by role ID
}

// FileRoleRepository implements RoleRepository using file-based storage
type FileRoleRepository struct {
	dataDir string
	data    *fileRoleData
	mutex   sync.RWMutex
}

// NewFileRoleRepository creates a new file-based role repository
func NewFileRoleRepository(dataDir string) (*FileRoleRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileRoleRepository{
		dataDir: dataDir,
		data: &fileRoleData{
			Roles: make(map[uuid.UUID]Role),
		},
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// FindByName retrieves a role by name
func (r *FileRoleRepository) FindByName(ctx context.Context, name Name) (Role, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, role := range r.data.Roles {
		if role.Name == name {
			return role, nil
		}
	}
	return Role{}, ErrRoleNotFound
}

// Save stores a new role and persists the file
func (r *FileRoleRepository) Save(ctx context.Context, role Role) (Role, error) {
	if !role.Name.Valid() {
		return Role{}, invalidRoleError(role.Name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.data.Roles {
		if existing.Name == role.Name {
			return Role{}, ErrRoleExists
		}
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}

	r.data.Roles[role.ID] = role
	if err := r.save(); err != nil {
		// Rollback
		delete(r.data.Roles, role.ID)
		return Role{}, fmt.Errorf("failed to save: %w", err)
	}

	return role, nil
}

// FindRoles returns all roles ordered by name
func (r *FileRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	roles := make([]Role, 0, len(r.data.Roles))
	for _, role := range r.data.Roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// Delete removes the role and persists the file; a missing ID is not an error
func (r *FileRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, existed := r.data.Roles[id]
	if !existed {
		return nil
	}
	delete(r.data.Roles, id)

	if err := r.save(); err != nil {
		r.data.Roles[id] = previous
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// load reads role data from file
func (r *FileRoleRepository) load() error {
	filePath := filepath.Join(r.dataDir, rolesFileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, r.data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if r.data.Roles == nil {
		r.data.Roles = make(map[uuid.UUID]Role)
	}
	return nil
}

// save writes role data to file atomically
func (r *FileRoleRepository) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, rolesFileName+".tmp")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, rolesFileName)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
