package model

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHallValidation(t *testing.T) {
	h, err := NewHall("Main Hall", 100, 10, 10, 15)
	require.NoError(t, err)
	assert.True(t, h.IsActive)
	assert.Equal(t, 15*time.Minute, h.Buffer(0))

	cases := []struct {
		name                                  string
		hallName                              string
		capacity, rows, cols, buffer          int
	}{
		{"short name", "ab", 100, 10, 10, 0},
		{"capacity too small", "Main Hall", 6, 2, 3, 0},
		{"zero grid", "Main Hall", 100, 0, 10, 0},
		{"grid exceeds capacity", "Main Hall", 10, 4, 4, 0},
		{"negative buffer", "Main Hall", 100, 10, 10, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHall(tc.hallName, tc.capacity, tc.rows, tc.cols, tc.buffer)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestHallBufferFallback(t *testing.T) {
	h, err := NewHall("Studio Two", 50, 5, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, h.Buffer(5*time.Minute))
}

func TestNewSeatValidation(t *testing.T) {
	hallID, typeID := uuid.New(), uuid.New()

	s, err := NewSeat(hallID, typeID, "A", 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, SeatFree, s.Status)
	assert.True(t, s.Bookable())

	_, err = NewSeat(uuid.Nil, typeID, "A", 1, 0, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewSeat(hallID, typeID, "", 1, 0, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewSeat(hallID, typeID, strings.Repeat("R", 17), 1, 0, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewSeat(hallID, typeID, "A", 0, 0, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBrokenSeatNotBookable(t *testing.T) {
	s, err := NewSeat(uuid.New(), uuid.New(), "B", 4, 3, 1)
	require.NoError(t, err)
	s.Status = SeatBroken
	assert.False(t, s.Bookable())
}

func TestNewSessionValidation(t *testing.T) {
	movieID, hallID, pricingID := uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

	s, err := NewSession(movieID, hallID, pricingID, start, start.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, SessionPlanned, s.Status)

	_, err = NewSession(uuid.Nil, hallID, pricingID, start, start.Add(time.Hour), "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewSession(movieID, hallID, pricingID, start, start, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewSession(movieID, hallID, pricingID, start.Add(time.Hour), start, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewSession(movieID, hallID, pricingID, start, start.Add(time.Hour), "CANCELLED")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSessionStatusPredicates(t *testing.T) {
	assert.True(t, SessionOpen.Bookable())
	for _, st := range []SessionStatus{SessionPlanned, SessionSoldOut, SessionInProgress, SessionCompleted} {
		assert.False(t, st.Bookable(), string(st))
	}
	assert.False(t, SessionCompleted.Active())
	for _, st := range []SessionStatus{SessionPlanned, SessionOpen, SessionSoldOut, SessionInProgress} {
		assert.True(t, st.Active(), string(st))
	}
}

func TestNewMovieValidation(t *testing.T) {
	valid := MovieParams{
		Title:           "Arrival",
		DurationMinutes: 116,
		Rating:          7.9,
		Description:     strings.Repeat("A linguist deciphers an alien language. ", 2),
		ReleaseYear:     2016,
		Cast:            []string{"Amy Adams"},
	}
	m, err := NewMovie(valid)
	require.NoError(t, err)
	assert.Equal(t, MovieComingSoon, m.Status)

	tooShortDesc := valid
	tooShortDesc.Description = "too short"
	_, err = NewMovie(tooShortDesc)
	assert.ErrorIs(t, err, ErrValidation)

	badRating := valid
	badRating.Rating = 10.5
	_, err = NewMovie(badRating)
	assert.ErrorIs(t, err, ErrValidation)

	badDuration := valid
	badDuration.DurationMinutes = 1
	_, err = NewMovie(badDuration)
	assert.ErrorIs(t, err, ErrValidation)

	noTitle := valid
	noTitle.Title = ""
	_, err = NewMovie(noTitle)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewPricingItemValidation(t *testing.T) {
	pricingID, typeID := uuid.New(), uuid.New()
	windowStart := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	windowEnd := windowStart.Add(8 * time.Hour)

	it, err := NewPricingItem(pricingID, typeID, 1500, 6, windowStart, windowEnd)
	require.NoError(t, err)
	assert.Equal(t, uint32(1500), it.PriceCents)

	_, err = NewPricingItem(pricingID, typeID, 0, 6, windowStart, windowEnd)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewPricingItem(pricingID, typeID, 1500, 0, windowStart, windowEnd)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewPricingItem(pricingID, typeID, 1500, 8, windowStart, windowEnd)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewPricingItem(pricingID, typeID, 1500, 6, windowEnd, windowStart)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewSeatTypeValidation(t *testing.T) {
	st, err := NewSeatType("VIP Recliner", "Extra legroom up front")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, st.ID)

	_, err = NewSeatType("ab", "Extra legroom up front")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewSeatType("VIP Recliner", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewPricingNameBounds(t *testing.T) {
	p, err := NewPricing("Weekend Matinee")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)

	_, err = NewPricing("ab")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewPricing(strings.Repeat("x", 65))
	assert.ErrorIs(t, err, ErrValidation)
}
