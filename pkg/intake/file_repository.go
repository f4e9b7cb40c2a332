package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const intakesFileName = "intakes.json"

type fileIntakeData struct {
	Intakes map[uuid.UUID]Intake `json:"intakes"` // keyed by intake ID
}

// FileIntakeRepository implements IntakeRepository using file-based storage
type FileIntakeRepository struct {
	dataDir string
	data    *fileIntakeData
	mutex   sync.RWMutex
}

// NewFileIntakeRepository creates a new file-based intake repository
func NewFileIntakeRepository(dataDir string) (*FileIntakeRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileIntakeRepository{
		dataDir: dataDir,
		data: &fileIntakeData{
			Intakes: make(map[uuid.UUID]Intake),
		},
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

func (r *FileIntakeRepository) Save(ctx context.Context, in Intake) (Intake, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, existing := range r.data.Intakes {
		if existing.IntakeCode == in.IntakeCode && id != in.ID {
			return Intake{}, ErrIntakeExists
		}
	}
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}

	previous, existed := r.data.Intakes[in.ID]
	r.data.Intakes[in.ID] = in

	if err := r.save(); err != nil {
		// Rollback
		if existed {
			r.data.Intakes[in.ID] = previous
		} else {
			delete(r.data.Intakes, in.ID)
		}
		return Intake{}, fmt.Errorf("failed to save: %w", err)
	}
	return in, nil
}

func (r *FileIntakeRepository) FindByID(ctx context.Context, id uuid.UUID) (Intake, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	in, ok := r.data.Intakes[id]
	if !ok {
		return Intake{}, ErrIntakeNotFound
	}
	return in, nil
}

func (r *FileIntakeRepository) FindByCode(ctx context.Context, code string) (Intake, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, in := range r.data.Intakes {
		if in.IntakeCode == code {
			return in, nil
		}
	}
	return Intake{}, ErrIntakeNotFound
}

func (r *FileIntakeRepository) load() error {
	filePath := filepath.Join(r.dataDir, intakesFileName)

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
	if r.data.Intakes == nil {
		r.data.Intakes = make(map[uuid.UUID]Intake)
	}
	return nil
}

func (r *FileIntakeRepository) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, intakesFileName+".tmp")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, filepath.Join(r.dataDir, intakesFileName)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
