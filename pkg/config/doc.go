// Package config loads service configuration from environment variables
// with cleanenv. Every field has a default, so an empty environment yields an
// in-memory service on port 4000.
//
//	IDM_PERSISTENCE=postgres IDM_PG_HOST=db PASSWORD_HASH_VERSION=3 ./idm
package config
