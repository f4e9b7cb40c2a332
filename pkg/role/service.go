package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tendant/simple-account/pkg/metrics"
)

// RoleService resolves requested role names into persisted role records
type RoleService struct {
	repo RoleRepository

	mu      sync.Mutex
	created []Name
}

func NewRoleService(repo RoleRepository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

// Resolve closes the requested names under the hierarchy and returns the
// persisted record for every name in the closed set, most senior first.
func (s *RoleService) Resolve(ctx context.Context, requested []Name) ([]Role, error) {
	closed, err := Close(requested)
	if err != nil {
		return nil, err
	}
	return s.FindOrCreateAll(ctx, closed)
}

// FindOrCreateAll looks up or creates each name as given, without closing
// the set.
func (s *RoleService) FindOrCreateAll(ctx context.Context, names []Name) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	seen := make(map[Name]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		r, err := s.FindOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// FindOrCreate returns the role record for name, creating it on first use.
// When a concurrent caller wins the create, the winner's record is returned.
func (s *RoleService) FindOrCreate(ctx context.Context, name Name) (Role, error) {
	if !name.Valid() {
		return Role{}, invalidRoleError(name)
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return Role{}, fmt.Errorf("failed to find role %s: %w", name, err)
	}

	created, err := s.repo.Save(ctx, Role{Name: name})
	if err == nil {
		slog.Info("Created role", "name", name, "id", created.ID)
		s.mu.Lock()
		s.created = append(s.created, name)
		s.mu.Unlock()
		return created, nil
	}
	if !errors.Is(err, ErrRoleExists) {
		return Role{}, fmt.Errorf("failed to create role %s: %w", name, err)
	}

	metrics.RoleCreateConflictsTotal.Inc()
	winner, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return Role{}, fmt.Errorf("failed to find role %s after conflict: %w", name, err)
	}
	return winner, nil
}

// FindRoles lists all persisted roles
func (s *RoleService) FindRoles(ctx context.Context) ([]Role, error) {
	return s.repo.FindRoles(ctx)
}

// CreatedRoles returns the names this service created, in creation order.
// Callers running inside a transaction report them once it commits.
func (s *RoleService) CreatedRoles() []Name {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Name, len(s.created))
	copy(out, s.created)
	return out
}
