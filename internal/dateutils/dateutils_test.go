package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name       string
		dateStr    string
		expectedOk bool
		expectedY  int
		expectedM  time.Month
		expectedD  int
	}{
		{"ISO format", "2024-01-15", true, 2024, time.January, 15},
		{"European dotted", "15.01.2024", true, 2024, time.January, 15},
		{"European slashed", "15/01/2024", true, 2024, time.January, 15},
		{"Dash separated", "15-01-2024", true, 2024, time.January, 15},
		{"Full timestamp", "2024-01-15 10:30:45", true, 2024, time.January, 15},
		{"Extra whitespace", "  2024-01-15  ", true, 2024, time.January, 15},
		{"Empty string", "", false, 0, 0, 0},
		{"Invalid", "not a date", false, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, err := ParseDate(tc.dateStr)
			if tc.expectedOk {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedY, date.Year())
				assert.Equal(t, tc.expectedM, date.Month())
				assert.Equal(t, tc.expectedD, date.Day())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDayDiff(t *testing.T) {
	jan5 := time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)
	jan7 := time.Date(2024, 1, 7, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, DayDiff(jan5, jan7))
	assert.Equal(t, 2, DayDiff(jan7, jan5))
	assert.Equal(t, 0, DayDiff(jan5, jan5))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 5, 22, 30, 0, 0, time.FixedZone("CET", 3600))

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(morning, morning.AddDate(0, 0, 1)))
}

func TestToISODate(t *testing.T) {
	d := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", ToISODate(d))
}
