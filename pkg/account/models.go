package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/identity"
	"github.com/tendant/simple-account/pkg/intake"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

// Account is a persisted user account. A nil ID means not yet persisted.
type Account struct {
	ID             uuid.UUID        `json:"id"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	PasswordHash   string           `json:"password_hash"`
	Deleted        bool             `json:"deleted"`
	Roles          []role.Role      `json:"roles"`
	Profile        *profile.Profile `json:"profile,omitempty"`
	Intake         *intake.Intake   `json:"intake,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	LastModifiedAt time.Time        `json:"last_modified_at"`
}

// RoleNames returns the names of the held roles in order
func (a Account) RoleNames() []role.Name {
	return role.Names(a.Roles)
}

// Identity builds the authentication view of the account
func (a Account) Identity() *identity.Identity {
	names := make([]string, len(a.Roles))
	for i, r := range a.Roles {
		names[i] = r.Name.String()
	}
	return identity.Build(identity.Source{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		RoleNames:    names,
	})
}
