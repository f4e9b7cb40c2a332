package login

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptV1Hasher implements PasswordHasher with plain bcrypt
type BcryptV1Hasher struct{}

func (h *BcryptV1Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (h *BcryptV1Hasher) Verify(password, hashedPassword string) (bool, error) {
	if password == "" || hashedPassword == "" {
		return false, errors.New("password and hashed password cannot be empty")
	}
	return compareBcrypt(hashedPassword, password)
}

// BcryptV2Hasher implements PasswordHasher using bcrypt over salt+password,
// stored as "salt:hash".
type BcryptV2Hasher struct{}

func (h *BcryptV2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt, err := generateSalt(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(salt+password), bcrypt.DefaultCost+2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", salt, string(hashedBytes)), nil
}

func (h *BcryptV2Hasher) Verify(password, hashedPassword string) (bool, error) {
	if password == "" || hashedPassword == "" {
		return false, errors.New("password and hashed password cannot be empty")
	}

	salt, hash, ok := strings.Cut(hashedPassword, ":")
	if !ok {
		return false, errors.New("invalid password hash format")
	}
	return compareBcrypt(hash, salt+password)
}

// compareBcrypt reports a mismatch as false with no error.
func compareBcrypt(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
