package identity

import (
	"log/slog"

	"github.com/google/uuid"
)

// Identity is the authentication-ready view of a persisted account.
// It is built per lookup and never stored.
type Identity struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	authorities  []string
}

// Source is the account data an Identity is projected from
type Source struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	RoleNames    []string
}

// Build projects src into an Identity. Authorities are the role names verbatim,
// in the order given.
func Build(src Source) *Identity {
	authorities := make([]string, len(src.RoleNames))
	copy(authorities, src.RoleNames)

	return &Identity{
		id:           src.ID,
		username:     src.Username,
		email:        src.Email,
		passwordHash: src.PasswordHash,
		authorities:  authorities,
	}
}

func (i *Identity) ID() uuid.UUID        { return i.id }
func (i *Identity) Username() string     { return i.username }
func (i *Identity) Email() string        { return i.email }
func (i *Identity) PasswordHash() string { return i.passwordHash }

// Authorities returns a copy of the granted authority names
func (i *Identity) Authorities() []string {
	out := make([]string, len(i.authorities))
	copy(out, i.authorities)
	return out
}

func (i *Identity) HasAuthority(name string) bool {
	for _, a := range i.authorities {
		if a == name {
			return true
		}
	}
	return false
}

// Account status is not tracked, so every status check passes.

func (i *Identity) IsAccountNonExpired() bool     { return true }
func (i *Identity) IsAccountNonLocked() bool      { return true }
func (i *Identity) IsCredentialsNonExpired() bool { return true }
func (i *Identity) IsEnabled() bool               { return true }

// Equals reports whether other is an Identity with the same id. Other
// fields are not compared. A nil receiver equals nothing.
func (i *Identity) Equals(other any) bool {
	if i == nil {
		return false
	}
	switch o := other.(type) {
	case *Identity:
		return o != nil && i.id == o.id
	case Identity:
		return i.id == o.id
	default:
		return false
	}
}

// LogValue omits the password hash
func (i *Identity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", i.id.String()),
		slog.String("username", i.username),
		slog.Any("authorities", i.authorities),
	)
}
