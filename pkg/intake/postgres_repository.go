package intake

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

// PostgresIntakeRepository implements IntakeRepository using PostgreSQL
type PostgresIntakeRepository struct {
	db DBTX
}

func NewPostgresIntakeRepository(db DBTX) *PostgresIntakeRepository {
	return &PostgresIntakeRepository{db: db}
}

func (r *PostgresIntakeRepository) Save(ctx context.Context, in Intake) (Intake, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}

	query := `
		INSERT INTO intakes (id, name, intake_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    intake_code = EXCLUDED.intake_code
	`

	if _, err := r.db.Exec(ctx, query, in.ID, in.Name, in.IntakeCode); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Intake{}, ErrIntakeExists
		}
		slog.Error("Failed to save intake", "err", err, "code", in.IntakeCode)
		return Intake{}, fmt.Errorf("failed to save intake: %w", err)
	}
	return in, nil
}

func (r *PostgresIntakeRepository) FindByID(ctx context.Context, id uuid.UUID) (Intake, error) {
	return r.findOne(ctx, `SELECT id, name, intake_code FROM intakes WHERE id = $1`, id)
}

func (r *PostgresIntakeRepository) FindByCode(ctx context.Context, code string) (Intake, error) {
	return r.findOne(ctx, `SELECT id, name, intake_code FROM intakes WHERE intake_code = $1`, code)
}

func (r *PostgresIntakeRepository) findOne(ctx context.Context, query string, arg interface{}) (Intake, error) {
	var in Intake
	err := r.db.QueryRow(ctx, query, arg).Scan(&in.ID, &in.Name, &in.IntakeCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Intake{}, ErrIntakeNotFound
		}
		slog.Error("Failed to get intake", "err", err)
		return Intake{}, fmt.Errorf("failed to get intake: %w", err)
	}
	return in, nil
}
