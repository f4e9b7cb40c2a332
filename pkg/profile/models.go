package profile

import "github.com/google/uuid"

// Profile holds the personal details linked to an account
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Image     string    `json:"image"`
}
