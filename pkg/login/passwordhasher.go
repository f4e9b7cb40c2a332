package login

import (
	"errors"
	"fmt"
	"strings"
)

// PasswordVersion represents the version of the password hashing algorithm
type PasswordVersion int

const (
	// PasswordV1 is plain bcrypt
	PasswordV1 PasswordVersion = 1
	// PasswordV2 adds a stored salt and uses a higher cost
	PasswordV2 PasswordVersion = 2
	// PasswordV3 is argon2id
	PasswordV3 PasswordVersion = 3

	// CurrentPasswordVersion is the version used for new hashes when none is configured
	CurrentPasswordVersion = PasswordV2

	// MaxSecretBytes is the longest input every version accepts: bcrypt reads
	// at most 72 bytes and V2 prepends a 16 byte salt.
	MaxSecretBytes = 72 - 16
)

var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHasher defines the one-way hashing service used for credentials
type PasswordHasher interface {
	// Hash hashes a password
	Hash(password string) (string, error)

	// Verify checks if the provided password matches the stored hash
	Verify(password, hashedPassword string) (bool, error)
}

// NewPasswordHasher returns the hasher for the given version
func NewPasswordHasher(version PasswordVersion) (PasswordHasher, error) {
	switch version {
	case PasswordV1:
		return &BcryptV1Hasher{}, nil
	case PasswordV2:
		return &BcryptV2Hasher{}, nil
	case PasswordV3:
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("unsupported password version: %d", version)
	}
}

// DetectVersion guesses the version of a stored hash from its format
func DetectVersion(hashedPassword string) PasswordVersion {
	switch {
	case strings.HasPrefix(hashedPassword, "$argon2id$"):
		return PasswordV3
	case strings.Contains(hashedPassword, ":"):
		return PasswordV2
	default:
		return PasswordV1
	}
}

// MultiVersionHasher hashes with one version and verifies any supported version,
// so stored hashes keep working after PASSWORD_HASH_VERSION changes.
type MultiVersionHasher struct {
	current PasswordHasher
}

func NewMultiVersionHasher(current PasswordVersion) (*MultiVersionHasher, error) {
	hasher, err := NewPasswordHasher(current)
	if err != nil {
		return nil, err
	}
	return &MultiVersionHasher{current: hasher}, nil
}

func (h *MultiVersionHasher) Hash(password string) (string, error) {
	return h.current.Hash(password)
}

func (h *MultiVersionHasher) Verify(password, hashedPassword string) (bool, error) {
	hasher, err := NewPasswordHasher(DetectVersion(hashedPassword))
	if err != nil {
		return false, err
	}
	return hasher.Verify(password, hashedPassword)
}
