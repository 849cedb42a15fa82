package duedate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAbsolute_MissingInputMeansNoDueDate(t *testing.T) {
	cases := []struct {
		name string
		date string
		tm   string
		zone string
	}{
		{"all_empty", "", "", ""},
		{"no_date", "", "14:30", "America/New_York"},
		{"no_time", "2024-03-10", "", "America/New_York"},
		{"no_zone", "2024-03-10", "14:30", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			instant, err := ToAbsolute(tc.date, tc.tm, tc.zone)
			require.NoError(t, err)
			assert.Nil(t, instant)
		})
	}
}

func TestToAbsolute_InvalidInput(t *testing.T) {
	t.Run("unknown_zone", func(t *testing.T) {
		_, err := ToAbsolute("2024-03-10", "14:30", "Mars/Olympus_Mons")
		assert.Error(t, err)
	})

	t.Run("malformed_date", func(t *testing.T) {
		_, err := ToAbsolute("10.03.2024", "14:30", "America/New_York")
		assert.Error(t, err)
	})

	t.Run("malformed_time", func(t *testing.T) {
		_, err := ToAbsolute("2024-03-10", "2pm", "America/New_York")
		assert.Error(t, err)
	})
}

func TestToAbsolute_NewYorkAfterSpringForward(t *testing.T) {
	// DST started 2024-03-10 02:00 in America/New_York, so 14:30 that day is
	// EDT (UTC-4).
	instant, err := ToAbsolute("2024-03-10", "14:30", "America/New_York")
	require.NoError(t, err)
	require.NotNil(t, instant)

	want := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)
	assert.True(t, instant.Equal(want), "got %s, want %s", instant, want)
}

func TestToAbsolute_NewYorkBeforeSpringForward(t *testing.T) {
	// The day before the transition is still EST (UTC-5).
	instant, err := ToAbsolute("2024-03-09", "14:30", "America/New_York")
	require.NoError(t, err)
	require.NotNil(t, instant)

	want := time.Date(2024, 3, 9, 19, 30, 0, 0, time.UTC)
	assert.True(t, instant.Equal(want), "got %s, want %s", instant, want)
}

func TestFromAbsolute(t *testing.T) {
	instant := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)

	date, tm, err := FromAbsolute(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", date)
	assert.Equal(t, "14:30", tm)

	// Same instant, different zone.
	date, tm, err = FromAbsolute(instant, "Europe/Moscow")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", date)
	assert.Equal(t, "21:30", tm)
}

func TestFromAbsolute_ZeroPadding(t *testing.T) {
	instant := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)

	date, tm, err := FromAbsolute(instant, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", date)
	assert.Equal(t, "03:04", tm)
}

func TestFromAbsolute_UnknownZone(t *testing.T) {
	_, _, err := FromAbsolute(time.Now(), "Not/A_Zone")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		date string
		tm   string
		zone string
	}{
		{"2024-03-10", "14:30", "America/New_York"},
		{"2024-06-15", "09:00", "Europe/Berlin"},
		{"2024-12-31", "23:59", "Asia/Tokyo"},
		{"2024-01-01", "00:00", "UTC"},
		{"2024-11-03", "14:00", "America/New_York"}, // fall-back day, after the transition
	}

	for _, tc := range cases {
		t.Run(tc.zone+"_"+tc.date+"_"+tc.tm, func(t *testing.T) {
			instant, err := ToAbsolute(tc.date, tc.tm, tc.zone)
			require.NoError(t, err)
			require.NotNil(t, instant)

			date, tm, err := FromAbsolute(*instant, tc.zone)
			require.NoError(t, err)
			assert.Equal(t, tc.date, date)
			assert.Equal(t, tc.tm, tm)
		})
	}
}

func TestToAbsolute_NonexistentWallClockStillResolves(t *testing.T) {
	// 02:30 on 2024-03-10 does not exist in America/New_York; the zone
	// database shifts it forward. The converter must still return a
	// well-defined instant without error.
	instant, err := ToAbsolute("2024-03-10", "02:30", "America/New_York")
	require.NoError(t, err)
	require.NotNil(t, instant)

	// The resolved instant lies inside the transition window.
	after := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)  // 01:00 EST
	before := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC) // 04:00 EDT
	assert.True(t, instant.After(after) && instant.Before(before), "resolved to %s", instant)
}
