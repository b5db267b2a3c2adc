package services

import (
	"testing"
	"time"

	"stagebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeriveMarkers(t *testing.T) {
	performer := &models.Performer{SetupTime: 30, PerformanceTime: 60, BreakdownTime: 30}

	t.Run("defaults to event start", func(t *testing.T) {
		b := &models.Booking{}
		require.NoError(t, deriveMarkers("20:00", performer, b))
		assert.Equal(t, "19:30", *b.SetupStart)
		assert.Equal(t, "20:00", *b.PerformanceStart)
		assert.Equal(t, "21:00", *b.PerformanceEnd)
		assert.Equal(t, "21:30", *b.LoadOut)
		assert.Equal(t, "19:30", *b.CallTime)
	})

	t.Run("wraps past midnight", func(t *testing.T) {
		long := &models.Performer{SetupTime: 45, PerformanceTime: 60, BreakdownTime: 30}
		b := &models.Booking{PerformanceStart: stringPtr("23:30")}
		require.NoError(t, deriveMarkers("20:00", long, b))
		assert.Equal(t, "22:45", *b.SetupStart)
		assert.Equal(t, "00:30", *b.PerformanceEnd)
		assert.Equal(t, "01:00", *b.LoadOut)
	})

	t.Run("keeps explicit markers", func(t *testing.T) {
		b := &models.Booking{CallTime: stringPtr("17:00"), LoadOut: stringPtr("23:00")}
		require.NoError(t, deriveMarkers("20:00", performer, b))
		assert.Equal(t, "17:00", *b.CallTime)
		assert.Equal(t, "23:00", *b.LoadOut)
		assert.Equal(t, "19:30", *b.SetupStart)
	})

	t.Run("rejects a malformed start", func(t *testing.T) {
		b := &models.Booking{PerformanceStart: stringPtr("8pm")}
		assert.Error(t, deriveMarkers("20:00", performer, b))
	})
}

func TestMarkerOffset(t *testing.T) {
	cases := []struct {
		start, marker, want int
	}{
		{start: 20 * 60, marker: 19*60 + 30, want: -30},
		{start: 22 * 60, marker: 1*60 + 30, want: 210},
		{start: 30, marker: 23*60 + 45, want: -45},
		{start: 8 * 60, marker: 2 * 60, want: -360},
		{start: 8 * 60, marker: 1*60 + 59, want: 17*60 + 59},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, markerOffset(tc.start, tc.marker), "start=%d marker=%d", tc.start, tc.marker)
	}
}

func TestBookingWindow(t *testing.T) {
	t.Run("event times without markers", func(t *testing.T) {
		w, err := bookingWindow(day("2026-06-12"), "10:00", "12:00", nil, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, at("2026-06-12 10:00"), w.Start)
		assert.Equal(t, at("2026-06-12 12:00"), w.End)
	})

	t.Run("event past midnight", func(t *testing.T) {
		w, err := bookingWindow(day("2026-06-12"), "22:00", "02:00", nil, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, at("2026-06-13 02:00"), w.End)
	})

	t.Run("equal start and end spans a full day", func(t *testing.T) {
		w, err := bookingWindow(day("2026-06-12"), "18:00", "18:00", nil, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
	})

	t.Run("markers across midnight", func(t *testing.T) {
		w, err := bookingWindow(day("2026-06-12"), "22:00", "02:00",
			stringPtr("23:30"), stringPtr("00:00"), stringPtr("01:00"), stringPtr("01:30"))
		require.NoError(t, err)
		assert.Equal(t, at("2026-06-12 23:30"), w.Start)
		assert.Equal(t, at("2026-06-13 01:30"), w.End)
	})

	t.Run("setup on the previous day", func(t *testing.T) {
		w, err := bookingWindow(day("2026-06-12"), "00:30", "03:00", stringPtr("23:45"), nil, nil, stringPtr("02:00"))
		require.NoError(t, err)
		assert.Equal(t, at("2026-06-11 23:45"), w.Start)
		assert.Equal(t, at("2026-06-12 02:00"), w.End)
	})

	t.Run("falls back to performance markers", func(t *testing.T) {
		w, err := bookingWindow(day("2026-06-12"), "18:00", "23:00", nil, stringPtr("19:00"), stringPtr("20:00"), nil)
		require.NoError(t, err)
		assert.Equal(t, at("2026-06-12 19:00"), w.Start)
		assert.Equal(t, at("2026-06-12 20:00"), w.End)
	})
}

func TestWindowOverlap(t *testing.T) {
	late, err := bookingWindow(day("2026-06-12"), "22:00", "02:00",
		stringPtr("23:30"), nil, nil, stringPtr("01:30"))
	require.NoError(t, err)

	earlyNextDay, err := bookingWindow(day("2026-06-13"), "00:00", "03:00",
		stringPtr("01:00"), nil, nil, stringPtr("02:30"))
	require.NoError(t, err)
	assert.True(t, late.overlaps(earlyNextDay))
	assert.True(t, earlyNextDay.overlaps(late))

	laterNextDay, err := bookingWindow(day("2026-06-13"), "00:00", "03:00",
		stringPtr("01:30"), nil, nil, stringPtr("02:30"))
	require.NoError(t, err)
	assert.False(t, late.overlaps(laterNextDay), "touching windows do not overlap")

	otherDay, err := bookingWindow(day("2026-06-14"), "22:00", "02:00", nil, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, late.overlaps(otherDay))
}
