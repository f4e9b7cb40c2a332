package login

import (
	"crypto/rand"
	"math/big"
)

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateSalt returns n random characters from saltAlphabet. The alphabet
// never contains ':' which separates salt and hash in v2 hashes.
func generateSalt(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(saltAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = saltAlphabet[idx.Int64()]
	}
	return string(b), nil
}
