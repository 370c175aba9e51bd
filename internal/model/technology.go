package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Technology describes a projection or sound capability of a hall
// (IMAX, Dolby Atmos, 3D and so on).
type Technology struct {
	ID        uuid.UUID
	Name      string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTechnology validates the name and type and returns a Technology
// with a fresh UUID.
func NewTechnology(name, techType string) (*Technology, error) {
	if l := len(name); l < 3 || l > 64 {
		return nil, fmt.Errorf("%w: technology name must be 3..64 characters", ErrValidation)
	}
	if l := len(techType); l < 3 || l > 64 {
		return nil, fmt.Errorf("%w: technology type must be 3..64 characters", ErrValidation)
	}
	now := time.Now().UTC()
	return &Technology{
		ID:        uuid.New(),
		Name:      name,
		Type:      techType,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
