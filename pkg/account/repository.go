package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/role"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account with this username or email already exists")
)

// AccountRepository defines the storage operations for accounts.
// Username and non-empty email are unique; a conflicting Save returns ErrAccountExists.
type AccountRepository interface {
	// Save inserts when the ID is nil and upserts by ID otherwise, replacing the role links
	Save(ctx context.Context, a Account) (Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (Account, error)
	FindByUsername(ctx context.Context, username string) (Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// conflicts reports whether candidate would violate username or email
// uniqueness against stored.
func conflicts(stored map[uuid.UUID]Account, candidate Account) bool {
	for id, a := range stored {
		if id == candidate.ID {
			continue
		}
		if a.Username == candidate.Username {
			return true
		}
		if candidate.Email != "" && a.Email == candidate.Email {
			return true
		}
	}
	return false
}

// cloneAccount returns a copy that shares no slices or pointers with a
func cloneAccount(a Account) Account {
	out := a
	if a.Roles != nil {
		out.Roles = make([]role.Role, len(a.Roles))
		copy(out.Roles, a.Roles)
	}
	if a.Profile != nil {
		p := *a.Profile
		out.Profile = &p
	}
	if a.Intake != nil {
		in := *a.Intake
		out.Intake = &in
	}
	return out
}
