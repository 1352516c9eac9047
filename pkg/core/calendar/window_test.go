package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWindow_SevenConsecutiveDays(t *testing.T) {
	today := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	window := ComputeWindow(today)

	assert.Equal(t, []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07",
	}, window)
}

func TestComputeWindow_Properties(t *testing.T) {
	locs := []string{"UTC", "America/New_York", "Pacific/Auckland", "Europe/London"}
	starts := []time.Time{
		time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 26, 23, 59, 0, 0, time.UTC), // leap year
		time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),   // US DST change
		time.Date(2024, 10, 26, 1, 0, 0, 0, time.UTC),  // EU DST change
	}

	for _, name := range locs {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)

		for _, start := range starts {
			today := start.In(loc)
			t.Run(name+"/"+today.Format(time.RFC3339), func(t *testing.T) {
				window := ComputeWindow(today)
				require.Len(t, window, WindowDays)
				assert.Equal(t, DateString(today), window[0], "window should start at the local date")

				seen := make(map[string]bool)
				for i, date := range window {
					assert.False(t, seen[date], "date %s repeated", date)
					seen[date] = true

					if i > 0 {
						next, err := AddDays(window[i-1], 1)
						require.NoError(t, err)
						assert.Equal(t, next, date, "dates should be consecutive")
						assert.Less(t, window[i-1], date, "dates should ascend")
					}
				}
			})
		}
	}
}

func TestComputeWindow_UsesLocalDayNotUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// 03:00 UTC on the 15th is still the evening of the 14th in Los Angeles
	instant := time.Date(2024, 6, 15, 3, 0, 0, 0, time.UTC)

	window := ComputeWindow(instant.In(loc))
	assert.Equal(t, "2024-06-14", window[0])
	assert.Equal(t, "2024-06-20", window[6])
}

func TestToday(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	clock := FixedClock(time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-06-15", Today(clock, loc))
	assert.Equal(t, "2024-06-14", Today(clock, time.UTC))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical", "2024-01-02", false},
		{"leap day", "2024-02-29", false},
		{"not a leap year", "2023-02-29", true},
		{"missing padding", "2024-1-2", true},
		{"garbage", "tomorrow", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	next, err := AddDays("2023-12-31", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", next)

	prev, err := AddDays("2024-03-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", prev)

	_, err = AddDays("nope", 1)
	assert.Error(t, err)
}
