// Package login provides the one-way hashing service used for account credentials.
//
// Three versions are supported:
//   - PasswordV1: bcrypt at the default cost
//   - PasswordV2: bcrypt over a random salt plus the password, stored as "salt:hash"
//   - PasswordV3: argon2id in the standard encoded form
//
// The provisioning service only needs a PasswordHasher:
//
//	hasher, err := login.NewMultiVersionHasher(login.PasswordV2)
//	hash, err := hasher.Hash("secret")
//	ok, err := hasher.Verify("secret", hash)
//
// MultiVersionHasher hashes with the configured version and verifies stored hashes
// of any version, detected from their format.
package login
