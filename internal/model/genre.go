package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Genre is a movie category.  Movies and genres are linked through the
// movie_genres join table; neither side owns the other.
type Genre struct {
	ID         uuid.UUID
	ExternalID *int64
	Name       string
	Slug       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewGenre validates the name and optional slug and returns a Genre
// with a fresh UUID.
func NewGenre(name string, slug *string, externalID *int64) (*Genre, error) {
	if l := len(name); l < 3 || l > 64 {
		return nil, fmt.Errorf("%w: genre name must be 3..64 characters", ErrValidation)
	}
	if slug != nil {
		if l := len(*slug); l < 1 || l > 32 {
			return nil, fmt.Errorf("%w: slug must be 1..32 characters", ErrValidation)
		}
	}
	now := time.Now().UTC()
	return &Genre{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Slug:       slug,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
