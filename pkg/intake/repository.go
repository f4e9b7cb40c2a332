package intake

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrIntakeNotFound = errors.New("intake not found")
	ErrIntakeExists   = errors.New("intake code already exists")
)

// IntakeRepository defines the storage operations for intakes
type IntakeRepository interface {
	// Save creates or replaces an intake; codes are unique across intakes
	Save(ctx context.Context, in Intake) (Intake, error)
	FindByID(ctx context.Context, id uuid.UUID) (Intake, error)
	FindByCode(ctx context.Context, code string) (Intake, error)
}
