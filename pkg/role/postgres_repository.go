package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db DBTX
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(db DBTX) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

// FindByName retrieves a role by name
func (r *PostgresRoleRepository) FindByName(ctx context.Context, name Name) (Role, error) {
	query := `
		SELECT id, name
		FROM roles
		WHERE name = $1
	`

	var role Role
	var rawName string
	err := r.db.QueryRow(ctx, query, string(name)).Scan(&role.ID, &rawName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrRoleNotFound
		}
		slog.Error("Failed to get role", "err", err, "name", name)
		return Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	role.Name = Name(rawName)
	return role, nil
}

// Save inserts a role. A conflicting name yields ErrRoleExists without raising
// a unique violation, so the surrounding transaction stays usable for the
// follow-up lookup.
func (r *PostgresRoleRepository) Save(ctx context.Context, role Role) (Role, error) {
	if !role.Name.Valid() {
		return Role{}, invalidRoleError(role.Name)
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}

	query := `
		INSERT INTO roles (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name
	`

	var saved Role
	var rawName string
	err := r.db.QueryRow(ctx, query, role.ID, string(role.Name)).Scan(&saved.ID, &rawName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Debug("Role already exists", "name", role.Name)
			return Role{}, ErrRoleExists
		}
		slog.Error("Failed to create role", "err", err, "name", role.Name)
		return Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	saved.Name = Name(rawName)
	return saved, nil
}

// FindRoles returns all roles ordered by name
func (r *PostgresRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	query := `
		SELECT id, name
		FROM roles
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		var rawName string
		if err := rows.Scan(&role.ID, &rawName); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		role.Name = Name(rawName)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}
	return roles, nil
}
