package role

import (
	"context"
	"errors"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role already exists")
	ErrInvalidRole  = errors.New("invalid role name")
)

// RoleRepository is the durable mapping from role name to role record.
// Save must fail with ErrRoleExists when the name is already taken so that
// concurrent creators can fall back to the existing record.
type RoleRepository interface {
	FindByName(ctx context.Context, name Name) (Role, error)
	Save(ctx context.Context, role Role) (Role, error)
	FindRoles(ctx context.Context) ([]Role, error)
}
