package idx_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/questrade/pkg/idx"
)

func TestNewAndParse(t *testing.T) {
	t.Parallel()

	id := idx.New()
	require.Len(t, id.String(), 26)

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestNewIsMonotonic(t *testing.T) {
	// Serial: NewAt with an older timestamp reseeds the shared entropy.
	prev := idx.New()
	for range 100 {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestNewAtCarriesTimestamp(t *testing.T) {
	t.Parallel()

	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)

	u, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
	require.WithinDuration(t, tm, ulid.Time(u.Time()), time.Millisecond)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "   ", "not-a-ulid", "fixed-id", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		id, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
		require.Equal(t, idx.Zero, id, s)
	}
}
