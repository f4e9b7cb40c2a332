package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tendant/simple-account/pkg/intake"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

// Repositories groups the stores one provisioning call works against
type Repositories struct {
	Accounts AccountRepository
	Roles    role.RoleRepository
	Profiles profile.ProfileRepository
	Intakes  intake.IntakeRepository
}

// TxManager runs a unit of work. Everything fn does through the given
// repositories commits together or, where the store supports it, not at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// Repositories returns the stores for reads outside a unit of work
	Repositories() Repositories
}

// LockingTxManager serializes units of work under a mutex and undoes the
// account, role and profile writes of a failing one. It suits the in-memory
// and file stores, whose writes are undone through Delete. Intakes are only
// read inside a unit of work.
type LockingTxManager struct {
	mu    sync.Mutex
	repos Repositories
}

func NewLockingTxManager(repos Repositories) *LockingTxManager {
	return &LockingTxManager{repos: repos}
}

func (m *LockingTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j := &undoJournal{}
	if err := fn(ctx, j.wrap(m.repos)); err != nil {
		j.rollback(ctx)
		return err
	}
	return nil
}

func (m *LockingTxManager) Repositories() Repositories {
	return m.repos
}

// deleter is implemented by the in-memory and file stores
type deleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// undoJournal records, for each successful write, the write that reverts it
type undoJournal struct {
	undos []func(ctx context.Context) error
}

func (j *undoJournal) record(undo func(ctx context.Context) error) {
	j.undos = append(j.undos, undo)
}

// rollback reverts recorded writes newest first. Failures are logged and the
// remaining undos still run.
func (j *undoJournal) rollback(ctx context.Context) {
	for i := len(j.undos) - 1; i >= 0; i-- {
		if err := j.undos[i](ctx); err != nil {
			slog.Error("Failed to undo write", "err", err)
		}
	}
	j.undos = nil
}

// wrap journals every store that supports Delete
func (j *undoJournal) wrap(repos Repositories) Repositories {
	out := repos
	if d, ok := repos.Accounts.(deleter); ok {
		out.Accounts = &journaledAccounts{AccountRepository: repos.Accounts, store: d, journal: j}
	}
	if d, ok := repos.Roles.(deleter); ok {
		out.Roles = &journaledRoles{RoleRepository: repos.Roles, store: d, journal: j}
	}
	if d, ok := repos.Profiles.(deleter); ok {
		out.Profiles = &journaledProfiles{ProfileRepository: repos.Profiles, store: d, journal: j}
	}
	return out
}

type journaledAccounts struct {
	AccountRepository
	store   deleter
	journal *undoJournal
}

func (r *journaledAccounts) Save(ctx context.Context, a Account) (Account, error) {
	var previous *Account
	if a.ID != uuid.Nil {
		found, err := r.AccountRepository.FindByID(ctx, a.ID)
		switch {
		case err == nil:
			previous = &found
		case !errors.Is(err, ErrAccountNotFound):
			return Account{}, err
		}
	}

	saved, err := r.AccountRepository.Save(ctx, a)
	if err != nil {
		return Account{}, err
	}
	r.journal.record(func(ctx context.Context) error {
		if previous != nil {
			_, err := r.AccountRepository.Save(ctx, *previous)
			return err
		}
		return r.store.Delete(ctx, saved.ID)
	})
	return saved, nil
}

// journaledRoles undoes role inserts; Save never replaces an existing role
type journaledRoles struct {
	role.RoleRepository
	store   deleter
	journal *undoJournal
}

func (r *journaledRoles) Save(ctx context.Context, rl role.Role) (role.Role, error) {
	saved, err := r.RoleRepository.Save(ctx, rl)
	if err != nil {
		return role.Role{}, err
	}
	r.journal.record(func(ctx context.Context) error {
		return r.store.Delete(ctx, saved.ID)
	})
	return saved, nil
}

type journaledProfiles struct {
	profile.ProfileRepository
	store   deleter
	journal *undoJournal
}

func (r *journaledProfiles) Save(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	var previous *profile.Profile
	if p.ID != uuid.Nil {
		found, err := r.ProfileRepository.FindByID(ctx, p.ID)
		switch {
		case err == nil:
			previous = &found
		case !errors.Is(err, profile.ErrProfileNotFound):
			return profile.Profile{}, err
		}
	}

	saved, err := r.ProfileRepository.Save(ctx, p)
	if err != nil {
		return profile.Profile{}, err
	}
	r.journal.record(func(ctx context.Context) error {
		if previous != nil {
			_, err := r.ProfileRepository.Save(ctx, *previous)
			return err
		}
		return r.store.Delete(ctx, saved.ID)
	})
	return saved, nil
}

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresTxManager runs each unit of work in a pgx transaction
type PostgresTxManager struct {
	db TxBeginner
}

func NewPostgresTxManager(db TxBeginner) *PostgresTxManager {
	return &PostgresTxManager{db: db}
}

func (m *PostgresTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("Failed to rollback transaction", "err", rbErr)
			}
		}
	}()

	if err = fn(ctx, postgresRepositories(tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (m *PostgresTxManager) Repositories() Repositories {
	return postgresRepositories(m.db)
}

func postgresRepositories(db DBTX) Repositories {
	return Repositories{
		Accounts: NewPostgresAccountRepository(db),
		Roles:    role.NewPostgresRoleRepository(db),
		Profiles: profile.NewPostgresProfileRepository(db),
		Intakes:  intake.NewPostgresIntakeRepository(db),
	}
}
