package intake

import "github.com/google/uuid"

// Intake is the enrolment cohort an account belongs to
type Intake struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IntakeCode string    `json:"intake_code"`
}
