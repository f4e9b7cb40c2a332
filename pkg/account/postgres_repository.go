package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tendant/simple-account/pkg/intake"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const uniqueViolation = "23505"

// PostgresAccountRepository implements AccountRepository using PostgreSQL.
// Profile and intake rows are referenced by id and must already exist.
type PostgresAccountRepository struct {
	db DBTX
}

func NewPostgresAccountRepository(db DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Save upserts the account row and replaces its role links. Run it inside a
// transaction so the row and links change together.
func (r *PostgresAccountRepository) Save(ctx context.Context, a Account) (Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	var profileID, intakeID uuid.NullUUID
	if a.Profile != nil {
		profileID = uuid.NullUUID{UUID: a.Profile.ID, Valid: true}
	}
	if a.Intake != nil {
		intakeID = uuid.NullUUID{UUID: a.Intake.ID, Valid: true}
	}

	query := `
		INSERT INTO accounts (id, username, email, password, deleted, profile_id, intake_id, created_at, last_modified_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    email = EXCLUDED.email,
		    password = EXCLUDED.password,
		    deleted = EXCLUDED.deleted,
		    profile_id = EXCLUDED.profile_id,
		    intake_id = EXCLUDED.intake_id,
		    last_modified_at = EXCLUDED.last_modified_at
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Deleted,
		profileID, intakeID, a.CreatedAt, a.LastModifiedAt,
	).Scan(&a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Account{}, ErrAccountExists
		}
		slog.Error("Failed to save account", "err", err, "username", a.Username)
		return Account{}, fmt.Errorf("failed to save account: %w", err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM account_roles WHERE account_id = $1`, a.ID); err != nil {
		return Account{}, fmt.Errorf("failed to clear account roles: %w", err)
	}
	for _, held := range a.Roles {
		_, err := r.db.Exec(ctx,
			`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			a.ID, held.ID)
		if err != nil {
			slog.Error("Failed to link role", "err", err, "account", a.ID, "role", held.Name)
			return Account{}, fmt.Errorf("failed to link role %s: %w", held.Name, err)
		}
	}

	return cloneAccount(a), nil
}

const selectAccount = `
	SELECT a.id, a.username, COALESCE(a.email, ''), a.password, a.deleted,
	       a.created_at, a.last_modified_at,
	       p.id, COALESCE(p.first_name, ''), COALESCE(p.last_name, ''), COALESCE(p.image, ''),
	       i.id, COALESCE(i.name, ''), COALESCE(i.intake_code, '')
	FROM accounts a
	LEFT JOIN profiles p ON p.id = a.profile_id
	LEFT JOIN intakes i ON i.id = a.intake_id
`

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE a.id = $1`, id)
}

func (r *PostgresAccountRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE a.username = $1`, username)
}

func (r *PostgresAccountRepository) findOne(ctx context.Context, query string, arg interface{}) (Account, error) {
	var a Account
	var p profile.Profile
	var in intake.Intake
	var profileID, intakeID uuid.NullUUID

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Deleted,
		&a.CreatedAt, &a.LastModifiedAt,
		&profileID, &p.FirstName, &p.LastName, &p.Image,
		&intakeID, &in.Name, &in.IntakeCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		slog.Error("Failed to get account", "err", err)
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	if profileID.Valid {
		p.ID = profileID.UUID
		a.Profile = &p
	}
	if intakeID.Valid {
		in.ID = intakeID.UUID
		a.Intake = &in
	}

	roles, err := r.findRoles(ctx, a.ID)
	if err != nil {
		return Account{}, err
	}
	a.Roles = roles
	return a, nil
}

func (r *PostgresAccountRepository) findRoles(ctx context.Context, accountID uuid.UUID) ([]role.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM account_roles ar
		JOIN roles r ON r.id = ar.role_id
		WHERE ar.account_id = $1
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account roles: %w", err)
	}
	defer rows.Close()

	var roles []role.Role
	for rows.Next() {
		var held role.Role
		var name string
		if err := rows.Scan(&held.ID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan account role: %w", err)
		}
		held.Name = role.Name(name)
		roles = append(roles, held)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account roles: %w", err)
	}

	role.SortBySeniority(roles)
	return roles, nil
}

func (r *PostgresAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}
