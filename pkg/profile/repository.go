package profile

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the storage operations for profiles
type ProfileRepository interface {
	// Save inserts the profile when its ID is nil, otherwise creates or replaces it by ID
	Save(ctx context.Context, p Profile) (Profile, error)
	// FindByID returns ErrProfileNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (Profile, error)
	// FindAll returns every profile ordered by last name, first name
	FindAll(ctx context.Context) ([]Profile, error)
}

func sortProfiles(profiles []Profile) {
	sort.Slice(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID.String() < b.ID.String()
	})
}
