package idx_test

import (
	"testing"

	"github.com/aussiebroadwan/gatekeep/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", s)
	}
}

func TestOrNew(t *testing.T) {
	t.Run("keeps a valid id", func(t *testing.T) {
		require.Equal(t, idx.ID("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"), idx.OrNew("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"))
	})

	t.Run("mints a new id for junk", func(t *testing.T) {
		id := idx.OrNew("<script>")
		_, err := idx.Parse(id.String())
		require.NoError(t, err)
	})
}

func TestNewIsMonotonic(t *testing.T) {
	prev := idx.New()
	for range 100 {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}
