package role

import (
	"fmt"

	"github.com/google/uuid"
	apperrors "github.com/tendant/simple-account/pkg/errors"
)

// Name is one of the fixed access tiers. Values match the stored role names.
type Name string

const (
	Admin    Name = "ROLE_ADMIN"
	Lecturer Name = "ROLE_LECTURER"
	Student  Name = "ROLE_STUDENT"
)

// Role is a persisted role record. Roles are reference data: looked up by
// name, created on first use, never deleted.
type Role struct {
	ID   uuid.UUID `json:"id"`
	Name Name      `json:"name"`
}

// String returns the role name
func (n Name) String() string {
	return string(n)
}

// Valid reports whether n is part of the hierarchy
func (n Name) Valid() bool {
	return tier(n) >= 0
}

// ParseName converts a raw role name into a Name, rejecting anything outside
// the enumeration.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.Valid() {
		return "", invalidRoleError(n)
	}
	return n, nil
}

// ParseNames converts raw role names, failing on the first invalid one
func ParseNames(names []string) ([]Name, error) {
	if len(names) == 0 {
		return nil, nil
	}
	result := make([]Name, 0, len(names))
	for _, s := range names {
		n, err := ParseName(s)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

// Names returns the names of the given roles in order
func Names(roles []Role) []Name {
	names := make([]Name, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}

func invalidRoleError(n Name) error {
	return apperrors.Wrap(ErrInvalidRole, apperrors.ErrCodeRoleInvalid, fmt.Sprintf("unknown role %q", string(n)))
}
