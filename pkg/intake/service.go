package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/tendant/simple-account/pkg/errors"
	"golang.org/x/exp/slog"
)

type IntakeService struct {
	repo IntakeRepository
}

func NewIntakeService(repo IntakeRepository) *IntakeService {
	return &IntakeService{repo: repo}
}

// CreateIntake stores a new intake. The code is trimmed and must be unique.
func (s *IntakeService) CreateIntake(ctx context.Context, name, code string) (Intake, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Intake{}, apperrors.InvalidInput("intake_code", "must not be empty")
	}

	saved, err := s.repo.Save(ctx, Intake{Name: name, IntakeCode: code})
	if err != nil {
		if errors.Is(err, ErrIntakeExists) {
			return Intake{}, apperrors.Wrap(err, apperrors.ErrCodeAlreadyExists, fmt.Sprintf("intake %s already exists", code))
		}
		return Intake{}, fmt.Errorf("failed to create intake: %w", err)
	}
	slog.Info("Created intake", "id", saved.ID, "code", saved.IntakeCode)
	return saved, nil
}

// GetIntakeByCode returns the intake for code; ok is false when none exists
func (s *IntakeService) GetIntakeByCode(ctx context.Context, code string) (Intake, bool, error) {
	in, err := s.repo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, ErrIntakeNotFound) {
			return Intake{}, false, nil
		}
		return Intake{}, false, fmt.Errorf("failed to get intake: %w", err)
	}
	return in, true, nil
}
