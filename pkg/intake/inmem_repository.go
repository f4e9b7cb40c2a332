package intake

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryIntakeRepository implements IntakeRepository using in-memory storage
type InMemoryIntakeRepository struct {
	mu      sync.RWMutex
	intakes map[uuid.UUID]Intake
	byCode  map[string]uuid.UUID
}

func NewInMemoryIntakeRepository() *InMemoryIntakeRepository {
	return &InMemoryIntakeRepository{
		intakes: make(map[uuid.UUID]Intake),
		byCode:  make(map[string]uuid.UUID),
	}
}

func (r *InMemoryIntakeRepository) Save(ctx context.Context, in Intake) (Intake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byCode[in.IntakeCode]; ok && owner != in.ID {
		return Intake{}, ErrIntakeExists
	}
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if previous, ok := r.intakes[in.ID]; ok {
		delete(r.byCode, previous.IntakeCode)
	}
	r.intakes[in.ID] = in
	r.byCode[in.IntakeCode] = in.ID
	return in, nil
}

func (r *InMemoryIntakeRepository) FindByID(ctx context.Context, id uuid.UUID) (Intake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.intakes[id]
	if !ok {
		return Intake{}, ErrIntakeNotFound
	}
	return in, nil
}

func (r *InMemoryIntakeRepository) FindByCode(ctx context.Context, code string) (Intake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return Intake{}, ErrIntakeNotFound
	}
	return r.intakes[id], nil
}
