package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"golang.org/x/exp/slog"
)

type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{
		repo: repo,
	}
}

// CreateProfile stores p as given. Empty fields are kept empty. A profile
// carrying an existing ID replaces the stored one.
func (s *ProfileService) CreateProfile(ctx context.Context, p Profile) (Profile, error) {
	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		slog.Error("Failed to save profile", "err", err)
		return Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	slog.Debug("Saved profile", "id", saved.ID)
	return saved, nil
}

// UpdateProfile replaces the fields of the stored profile with p.ID. It fails
// with NOT_FOUND rather than creating a profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	if _, err := s.repo.FindByID(ctx, p.ID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return Profile{}, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "profile not found").
				WithDetail("id", p.ID.String())
		}
		return Profile{}, fmt.Errorf("failed to find profile: %w", err)
	}
	return s.CreateProfile(ctx, p)
}

// GetProfile returns the profile for id; ok is false when none exists
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (Profile, bool, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return Profile{}, false, nil
		}
		return Profile{}, false, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, true, nil
}

// GetAllProfiles returns every profile, or an empty slice
func (s *ProfileService) GetAllProfiles(ctx context.Context) ([]Profile, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, nil
}
