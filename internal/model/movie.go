package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MovieStatus describes where a movie sits in its release cycle.
type MovieStatus string

const (
	MovieComingSoon MovieStatus = "COMING_SOON"
	MovieNowPlaying MovieStatus = "NOW_PLAYING"
	MovieEnded      MovieStatus = "ENDED"
)

// Movie represents a film in the catalog.  Sessions reference movies
// by ID; a movie owns nothing.
//
// Fields:
//  ID              – primary key identifier.
//  ExternalID      – TMDB identifier (nil when not imported).
//  Title           – movie title, 1..128 characters.
//  Slug            – optional URL slug, at most 32 characters.
//  DurationMinutes – running time, at least 2 minutes.
//  Rating          – aggregate rating on a 0..10 scale.
//  PosterURL       – optional poster image URL.
//  TrailerURL      – optional trailer URL.
//  BackdropURL     – optional backdrop image URL.
//  Description     – synopsis, 32..512 characters.
//  ReleaseYear     – year of release, positive.
//  Cast            – billed cast names.
//  Status          – release-cycle status.
//  IsDeleted       – soft-delete flag.
type Movie struct {
	ID              uuid.UUID
	ExternalID      *int64
	Title           string
	Slug            *string
	DurationMinutes int
	Rating          float64
	PosterURL       *string
	TrailerURL      *string
	BackdropURL     *string
	Description     string
	ReleaseYear     int
	Cast            []string
	Status          MovieStatus
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MovieParams carries the caller-supplied fields for NewMovie.
type MovieParams struct {
	ExternalID      *int64
	Title           string
	Slug            *string
	DurationMinutes int
	Rating          float64
	PosterURL       *string
	TrailerURL      *string
	BackdropURL     *string
	Description     string
	ReleaseYear     int
	Cast            []string
	Status          MovieStatus
}

// NewMovie validates the parameters and returns a Movie with a fresh
// UUID.  The Status defaults to COMING_SOON when empty.
func NewMovie(p MovieParams) (*Movie, error) {
	if l := len(p.Title); l < 1 || l > 128 {
		return nil, fmt.Errorf("%w: title must be 1..128 characters", ErrValidation)
	}
	if p.Slug != nil {
		if l := len(*p.Slug); l < 1 || l > 32 {
			return nil, fmt.Errorf("%w: slug must be 1..32 characters", ErrValidation)
		}
	}
	if p.DurationMinutes < 2 {
		return nil, fmt.Errorf("%w: duration must be at least 2 minutes", ErrValidation)
	}
	if p.Rating < 0 || p.Rating > 10 {
		return nil, fmt.Errorf("%w: rating must be within 0..10", ErrValidation)
	}
	if l := len(p.Description); l < 32 || l > 512 {
		return nil, fmt.Errorf("%w: description must be 32..512 characters", ErrValidation)
	}
	if p.ReleaseYear <= 0 {
		return nil, fmt.Errorf("%w: release year must be positive", ErrValidation)
	}
	status := p.Status
	if status == "" {
		status = MovieComingSoon
	}
	switch status {
	case MovieComingSoon, MovieNowPlaying, MovieEnded:
	default:
		return nil, fmt.Errorf("%w: unknown movie status %q", ErrValidation, status)
	}
	now := time.Now().UTC()
	return &Movie{
		ID:              uuid.New(),
		ExternalID:      p.ExternalID,
		Title:           p.Title,
		Slug:            p.Slug,
		DurationMinutes: p.DurationMinutes,
		Rating:          p.Rating,
		PosterURL:       p.PosterURL,
		TrailerURL:      p.TrailerURL,
		BackdropURL:     p.BackdropURL,
		Description:     p.Description,
		ReleaseYear:     p.ReleaseYear,
		Cast:            p.Cast,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
