package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThat(t *testing.T) {
	require.NotPanics(t, func() { That(true, "never") })

	if Enabled {
		require.PanicsWithValue(t, "index 3 out of range", func() { That(false, "index %d out of range", 3) })
	} else {
		require.NotPanics(t, func() { That(false, "index %d out of range", 3) })
	}
}
