package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	db DBTX
}

func NewPostgresProfileRepository(db DBTX) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Save(ctx context.Context, p Profile) (Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO profiles (id, first_name, last_name, image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    image = EXCLUDED.image
	`

	if _, err := r.db.Exec(ctx, query, p.ID, p.FirstName, p.LastName, p.Image); err != nil {
		slog.Error("Failed to save profile", "err", err, "id", p.ID)
		return Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	query := `
		SELECT id, first_name, last_name, image
		FROM profiles
		WHERE id = $1
	`

	var p Profile
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		slog.Error("Failed to get profile", "err", err, "id", id)
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) FindAll(ctx context.Context) ([]Profile, error) {
	query := `
		SELECT id, first_name, last_name, image
		FROM profiles
		ORDER BY last_name, first_name, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}
