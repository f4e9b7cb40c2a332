package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/client"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/identity"
	"github.com/tendant/simple-account/pkg/intake"
	"github.com/tendant/simple-account/pkg/login"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

// AnonymousUser is the principal name reported when no one is authenticated
const AnonymousUser = "anonymousUser"

type AccountService struct {
	txManager TxManager
	hasher    login.PasswordHasher
	now       func() time.Time
}

// AccountServiceOption is a functional option for configuring AccountService
type AccountServiceOption func(*AccountService)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) AccountServiceOption {
	return func(s *AccountService) {
		s.now = now
	}
}

func NewAccountService(txManager TxManager, hasher login.PasswordHasher, opts ...AccountServiceOption) *AccountService {
	s := &AccountService{
		txManager: txManager,
		hasher:    hasher,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount provisions candidate in one unit of work. The requested roles
// are closed under the hierarchy (STUDENT when none are requested), and the
// stored credential is the hash of the username; any credential on the
// candidate is discarded, and the username must fit login.MaxSecretBytes.
// A profile without an ID is created, one with an ID links the stored record.
// The intake must already exist and is linked by ID or code.
// Duplicate username or email fails with ErrAccountExists from the store.
func (s *AccountService) CreateAccount(ctx context.Context, candidate Account) (Account, error) {
	if candidate.Username == "" {
		return Account{}, s.fail("create", apperrors.InvalidInput("username", "must not be empty"))
	}
	if len(candidate.Username) > login.MaxSecretBytes {
		return Account{}, s.fail("create", apperrors.InvalidInput("username", fmt.Sprintf("must be at most %d bytes", login.MaxSecretBytes)))
	}

	var (
		created  Account
		newRoles []role.Name
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		roleService := role.NewRoleService(repos.Roles)
		roles, err := roleService.Resolve(ctx, candidate.RoleNames())
		if err != nil {
			return err
		}

		hash, err := s.hasher.Hash(candidate.Username)
		if err != nil {
			return apperrors.InternalWrap(err, "failed to hash credential")
		}

		linkedProfile, err := linkProfile(ctx, repos.Profiles, candidate.Profile, nil)
		if err != nil {
			return err
		}
		linkedIntake, err := linkIntake(ctx, repos.Intakes, candidate.Intake)
		if err != nil {
			return err
		}

		now := s.now()
		created, err = repos.Accounts.Save(ctx, Account{
			Username:       candidate.Username,
			Email:          candidate.Email,
			PasswordHash:   hash,
			Deleted:        candidate.Deleted,
			Roles:          roles,
			Profile:        linkedProfile,
			Intake:         linkedIntake,
			CreatedAt:      now,
			LastModifiedAt: now,
		})
		if err != nil {
			return storeError(err, candidate.Username)
		}
		newRoles = roleService.CreatedRoles()
		return nil
	})
	if err != nil {
		return Account{}, s.fail("create", err)
	}
	recordCreatedRoles(newRoles)

	slog.Info("Created account", "id", created.ID, "username", created.Username, "roles", created.RoleNames())
	metrics.AccountsProvisionedTotal.WithLabelValues("create").Inc()
	return created, nil
}

// UpdateAccount overwrites email, profile, intake, deleted flag and roles of
// the stored account identified by existing.ID, or by existing.Username when
// the ID is nil. Roles are stored exactly as given, not closed. A nil profile
// or intake clears the link. A profile without an ID replaces the fields of
// the linked profile in place. Username, ID and credential are left unchanged.
func (s *AccountService) UpdateAccount(ctx context.Context, existing *Account) (Account, error) {
	if existing == nil {
		return Account{}, s.fail("update", apperrors.InvalidInput("account", "must not be nil"))
	}
	if len(existing.Roles) == 0 {
		return Account{}, s.fail("update", apperrors.InvalidInput("roles", "at least one role is required"))
	}

	var (
		updated  Account
		newRoles []role.Name
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		target, err := findTarget(ctx, repos.Accounts, existing)
		if err != nil {
			return err
		}

		roleService := role.NewRoleService(repos.Roles)
		roles, err := roleService.FindOrCreateAll(ctx, existing.RoleNames())
		if err != nil {
			return err
		}

		linkedProfile, err := linkProfile(ctx, repos.Profiles, existing.Profile, target.Profile)
		if err != nil {
			return err
		}
		linkedIntake, err := linkIntake(ctx, repos.Intakes, existing.Intake)
		if err != nil {
			return err
		}

		target.Email = existing.Email
		target.Deleted = existing.Deleted
		target.Profile = linkedProfile
		target.Intake = linkedIntake
		target.Roles = roles
		target.LastModifiedAt = s.now()

		updated, err = repos.Accounts.Save(ctx, target)
		if err != nil {
			return storeError(err, target.Username)
		}
		newRoles = roleService.CreatedRoles()
		return nil
	})
	if err != nil {
		return Account{}, s.fail("update", err)
	}
	recordCreatedRoles(newRoles)

	slog.Info("Updated account", "id", updated.ID, "username", updated.Username, "roles", updated.RoleNames())
	metrics.AccountsProvisionedTotal.WithLabelValues("update").Inc()
	return updated, nil
}

// ExistsByUsername reports false for an empty name without querying the store
func (s *AccountService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	return s.txManager.Repositories().Accounts.ExistsByUsername(ctx, username)
}

// ExistsByEmail reports false for an empty email without querying the store
func (s *AccountService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	return s.txManager.Repositories().Accounts.ExistsByEmail(ctx, email)
}

// GetUserByUsername returns ok == false when no account has the name
func (s *AccountService) GetUserByUsername(ctx context.Context, username string) (Account, bool, error) {
	if username == "" {
		return Account{}, false, nil
	}

	a, err := s.txManager.Repositories().Accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			slog.Debug("Account not found", "username", username)
			return Account{}, false, nil
		}
		return Account{}, false, fmt.Errorf("failed to get account %s: %w", username, err)
	}
	return a, true, nil
}

// GetUserName returns the authenticated principal's name, or AnonymousUser
func (s *AccountService) GetUserName(ctx context.Context) string {
	if name, ok := client.PrincipalName(ctx); ok {
		return name
	}
	return AnonymousUser
}

// LoadIdentityByUsername returns the authentication view of the named account
func (s *AccountService) LoadIdentityByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	a, ok, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Wrap(ErrAccountNotFound, apperrors.ErrCodeUserNotFound, fmt.Sprintf("user %s not found", username))
	}
	return a.Identity(), nil
}

// Authenticate checks password against the stored credential. Unknown users
// and wrong passwords fail the same way.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*identity.Identity, error) {
	invalid := apperrors.New(apperrors.ErrCodeInvalidCredentials, "invalid username or password")
	if username == "" || password == "" {
		return nil, invalid
	}

	a, ok, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok || a.Deleted {
		return nil, invalid
	}

	match, err := s.hasher.Verify(password, a.PasswordHash)
	if err != nil {
		slog.Warn("Failed to verify credential", "err", err, "username", username)
		return nil, invalid
	}
	if !match {
		return nil, invalid
	}
	return a.Identity(), nil
}

// ChangePassword replaces the stored credential with the hash of newPassword,
// which must fit login.MaxSecretBytes
func (s *AccountService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return s.fail("change_password", apperrors.InvalidInput("password", "must not be empty"))
	}
	if len(newPassword) > login.MaxSecretBytes {
		return s.fail("change_password", apperrors.InvalidInput("password", fmt.Sprintf("must be at most %d bytes", login.MaxSecretBytes)))
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		target, err := findTarget(ctx, repos.Accounts, &Account{Username: username})
		if err != nil {
			return err
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return apperrors.InternalWrap(err, "failed to hash credential")
		}
		target.PasswordHash = hash
		target.LastModifiedAt = s.now()

		_, err = repos.Accounts.Save(ctx, target)
		return storeError(err, username)
	})
	if err != nil {
		return s.fail("change_password", err)
	}

	slog.Info("Changed password", "username", username)
	return nil
}

func findTarget(ctx context.Context, accounts AccountRepository, ref *Account) (Account, error) {
	var (
		target Account
		err    error
	)
	if ref.ID != uuid.Nil {
		target, err = accounts.FindByID(ctx, ref.ID)
	} else {
		target, err = accounts.FindByUsername(ctx, ref.Username)
	}
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Account{}, apperrors.Wrap(err, apperrors.ErrCodeUserNotFound, "account to update not found").
				WithDetail("id", ref.ID.String()).
				WithDetail("username", ref.Username)
		}
		return Account{}, fmt.Errorf("failed to find account: %w", err)
	}
	return target, nil
}

// linkProfile returns the profile to link. A profile with an ID must exist and
// is linked as stored. Without an ID its fields are saved over current, or as
// a new profile when current is nil. nil clears the link.
func linkProfile(ctx context.Context, profiles profile.ProfileRepository, p, current *profile.Profile) (*profile.Profile, error) {
	if p == nil {
		return nil, nil
	}

	if p.ID != uuid.Nil {
		stored, err := profiles.FindByID(ctx, p.ID)
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "profile not found").
					WithDetail("id", p.ID.String())
			}
			return nil, fmt.Errorf("failed to find profile: %w", err)
		}
		return &stored, nil
	}

	fields := *p
	if current != nil {
		fields.ID = current.ID
	}
	saved, err := profiles.Save(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return &saved, nil
}

// linkIntake returns the stored intake referenced by ID, or by code when the
// ID is nil. Intakes are never written here. nil clears the link.
func linkIntake(ctx context.Context, intakes intake.IntakeRepository, in *intake.Intake) (*intake.Intake, error) {
	if in == nil {
		return nil, nil
	}

	var (
		stored intake.Intake
		err    error
	)
	if in.ID != uuid.Nil {
		stored, err = intakes.FindByID(ctx, in.ID)
	} else {
		stored, err = intakes.FindByCode(ctx, in.IntakeCode)
	}
	if err != nil {
		if errors.Is(err, intake.ErrIntakeNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "intake not found").
				WithDetail("id", in.ID.String()).
				WithDetail("intake_code", in.IntakeCode)
		}
		return nil, fmt.Errorf("failed to find intake: %w", err)
	}
	return &stored, nil
}

func storeError(err error, username string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAccountExists) {
		return apperrors.Wrap(err, apperrors.ErrCodeUserAlreadyExists, fmt.Sprintf("account %s already exists", username))
	}
	slog.Error("Failed to save account", "err", err, "username", username)
	return err
}

func recordCreatedRoles(names []role.Name) {
	for _, name := range names {
		metrics.RolesCreatedTotal.WithLabelValues(string(name)).Inc()
	}
}

func (s *AccountService) fail(operation string, err error) error {
	metrics.ProvisioningErrorsTotal.WithLabelValues(operation, string(apperrors.GetCode(err))).Inc()
	return err
}
