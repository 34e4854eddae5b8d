package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNextPostTime(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "thursday rolls to friday",
			now:  date(2024, time.January, 4, 10, 0),
			want: date(2024, time.January, 5, 9, 0),
		},
		{
			name: "monday before nine skips to wednesday",
			now:  date(2024, time.January, 8, 8, 0),
			want: date(2024, time.January, 10, 9, 0),
		},
		{
			name: "saturday wraps to next monday",
			now:  date(2024, time.January, 6, 10, 0),
			want: date(2024, time.January, 8, 9, 0),
		},
		{
			name: "sunday wraps to monday",
			now:  date(2024, time.January, 7, 23, 30),
			want: date(2024, time.January, 8, 9, 0),
		},
		{
			name: "friday after nine wraps to next monday",
			now:  date(2024, time.January, 5, 18, 0),
			want: date(2024, time.January, 8, 9, 0),
		},
		{
			name: "wednesday exactly nine rolls to friday",
			now:  date(2024, time.January, 3, 9, 0),
			want: date(2024, time.January, 5, 9, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPostTime(tt.now))
		})
	}
}

func TestNextPostTimeProperties(t *testing.T) {
	// Walk a few weeks hour by hour; every result must be strictly in
	// the future, land on Mon/Wed/Fri, and be exactly 09:00:00.
	now := date(2024, time.March, 1, 0, 0)
	for i := 0; i < 21*24; i++ {
		next := NextPostTime(now)

		require.True(t, next.After(now), "next %v not after now %v", next, now)
		wd := next.Weekday()
		require.Contains(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, wd)
		require.Equal(t, 9, next.Hour())
		require.Equal(t, 0, next.Minute())
		require.Equal(t, 0, next.Second())

		now = now.Add(time.Hour)
	}
}

func TestParseScheduleTime(t *testing.T) {
	for _, ok := range []string{
		"2030-06-01T09:00:00Z",
		"2030-06-01T09:00:00",
		"2030-06-01 09:00:00",
	} {
		_, err := ParseScheduleTime(ok)
		assert.NoError(t, err, ok)
	}

	_, err := ParseScheduleTime("not-a-timestamp")
	assert.ErrorIs(t, err, ErrInvalidScheduleTime)
}
