package qtsdk

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"midnight", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "2024-01-02T00:00:00.000000-05:00"},
		{"time of day dropped", time.Date(2024, 12, 31, 23, 59, 59, 999, time.UTC), "2024-12-31T00:00:00.000000-05:00"},
		{"calendar date in own zone", time.Date(2023, 7, 4, 1, 0, 0, 0, time.FixedZone("AEST", 10*3600)), "2023-07-04T00:00:00.000000-05:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}

func TestNewDateRangeOrdersBounds(t *testing.T) {
	t.Parallel()

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, rng := range []DateRange{NewDateRange(early, late), NewDateRange(late, early)} {
		require.Equal(t, early, rng.Start())
		require.Equal(t, late, rng.End())
		require.False(t, rng.IsZero())

		q := url.Values{}
		rng.apply(q)
		require.Equal(t, "2024-01-01T00:00:00.000000-05:00", q.Get("startTime"))
		require.Equal(t, "2024-02-01T00:00:00.000000-05:00", q.Get("endTime"))
	}
}

func TestDateRangeZero(t *testing.T) {
	t.Parallel()

	require.True(t, DateRange{}.IsZero())

	day := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	single := NewDateRange(day, day)
	require.False(t, single.IsZero())
	require.Equal(t, single.Start(), single.End())
}
