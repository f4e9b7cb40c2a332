package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const profilesFileName = "profiles.json"

// fileProfileData represents all profile data stored in the file
type fileProfileData struct {
	Profiles map[uuid.UUID]Profile `json:"profiles"` // keyed by profile ID
}

// FileProfileRepository implements ProfileRepository using file-based storage
type FileProfileRepository struct {
	dataDir string
	data    *fileProfileData
	mutex   sync.RWMutex
}

// NewFileProfileRepository creates a new file-based profile repository
func NewFileProfileRepository(dataDir string) (*FileProfileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileProfileRepository{
		dataDir: dataDir,
		data: &fileProfileData{
			Profiles: make(map[uuid.UUID]Profile),
		},
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// Save creates or replaces a profile and persists the file
func (r *FileProfileRepository) Save(ctx context.Context, p Profile) (Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	previous, existed := r.data.Profiles[p.ID]
	r.data.Profiles[p.ID] = p

	if err := r.save(); err != nil {
		// Rollback
		if existed {
			r.data.Profiles[p.ID] = previous
		} else {
			delete(r.data.Profiles, p.ID)
		}
		return Profile{}, fmt.Errorf("failed to save: %w", err)
	}

	return p, nil
}

// FindByID retrieves a profile by its ID
func (r *FileProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.data.Profiles[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

// FindAll returns all stored profiles
func (r *FileProfileRepository) FindAll(ctx context.Context) ([]Profile, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	profiles := make([]Profile, 0, len(r.data.Profiles))
	for _, p := range r.data.Profiles {
		profiles = append(profiles, p)
	}
	sortProfiles(profiles)
	return profiles, nil
}

// Delete removes the profile and persists the file; a missing ID is not an error
func (r *FileProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, existed := r.data.Profiles[id]
	if !existed {
		return nil
	}
	delete(r.data.Profiles, id)

	if err := r.save(); err != nil {
		r.data.Profiles[id] = previous
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// load reads profile data from file
func (r *FileProfileRepository) load() error {
	filePath := filepath.Join(r.dataDir, profilesFileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, r.data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if r.data.Profiles == nil {
		r.data.Profiles = make(map[uuid.UUID]Profile)
	}
	return nil
}

// save writes profile data to file atomically
func (r *FileProfileRepository) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, profilesFileName+".tmp")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, filepath.Join(r.dataDir, profilesFileName)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
