package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString_Valid(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		minutes  int
	}{
		{"00:00", "00:00", 0},
		{"09:30", "09:30", 570},
		{"12:00", "12:00", 720},
		{"23:59", "23:59", 1439},
		{"18:00:00", "18:00", 1080},
		{"07:45:59", "07:45", 465},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ts.String())

			m, err := ts.Minutes()
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, m)
			assert.GreaterOrEqual(t, m, 0)
			assert.LessOrEqual(t, m, 1439)
		})
	}
}

func TestNewTimeStringFromString_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"9:30",
		"24:00",
		"12:60",
		"12:00:60",
		"12.30",
		"12:3",
		"ab:cd",
		"12:00:00:00",
		"-1:00",
		"12:00 PM",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := NewTimeStringFromString(input)
			assert.ErrorIs(t, err, ErrInvalidTimeString)
		})
	}
}

func TestTimeString_MinutesDeterministic(t *testing.T) {
	ts, err := NewTimeStringFromString("13:37")
	require.NoError(t, err)

	first, err := ts.Minutes()
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		m, err := ts.Minutes()
		require.NoError(t, err)
		assert.Equal(t, first, m)
	}
}

func TestTimeString_MidnightAndNoonDistinct(t *testing.T) {
	midnight, err := NewTimeStringFromString("00:00")
	require.NoError(t, err)
	noon, err := NewTimeStringFromString("12:00")
	require.NoError(t, err)

	mm, _ := midnight.Minutes()
	nm, _ := noon.Minutes()
	assert.Equal(t, 0, mm)
	assert.Equal(t, 720, nm)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := NewTimeStringFromString("23:30")
	require.NoError(t, err)

	next, err := ts.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "00:30", next.String())
}

func TestTimeString_Comparisons(t *testing.T) {
	a, _ := NewTimeStringFromString("10:00")
	b, _ := NewTimeStringFromString("11:00")

	assert.True(t, a.IsBefore(b))
	assert.False(t, a.IsAfter(b))
	assert.False(t, a.IsBefore(a))
	assert.False(t, a.IsAfter(a))
}

func TestNewTimeString_FromTime(t *testing.T) {
	ts := NewTimeString(time.Date(2025, 10, 15, 9, 5, 30, 0, time.UTC))
	assert.Equal(t, "09:05", ts.String())
}

func TestNewTimeStringFromMinutes_Wraps(t *testing.T) {
	assert.Equal(t, "01:00", NewTimeStringFromMinutes(1500).String())
	assert.Equal(t, "00:00", NewTimeStringFromMinutes(0).String())
	assert.Equal(t, "23:00", NewTimeStringFromMinutes(-60).String())
}
