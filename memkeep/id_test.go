package memkeep

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestId(t *testing.T) {
	t.Run("zero id is invalid", func(t *testing.T) {
		require.False(t, Invalid.IsValid())
		require.False(t, Id{}.IsValid())
		require.True(t, Id{Index: 0, Generation: 1}.IsValid())
	})

	t.Run("display", func(t *testing.T) {
		require.Equal(t, "3.7", Id{Index: 3, Generation: 7}.String())
		require.Equal(t, "3.7", Id{Index: 3, Generation: 7}.LogValue().String())
	})

	t.Run("ordering", func(t *testing.T) {
		ids := []Id{
			{Index: 2, Generation: 1},
			{Index: 1, Generation: 5},
			{Index: 1, Generation: 2},
		}

		slices.SortFunc(ids, Id.Compare)

		require.Equal(t, []Id{
			{Index: 1, Generation: 2},
			{Index: 1, Generation: 5},
			{Index: 2, Generation: 1},
		}, ids)

		require.True(t, ids[0].Less(ids[1]))
		require.False(t, ids[1].Less(ids[1]))
	})

	t.Run("json tuple", func(t *testing.T) {
		encoded, err := json.Marshal(Id{Index: 4, Generation: 9})
		require.NoError(t, err)
		require.JSONEq(t, `[4, 9]`, string(encoded))

		var id Id
		require.NoError(t, json.Unmarshal([]byte(`[12, 3]`), &id))
		require.Equal(t, Id{Index: 12, Generation: 3}, id)

		require.Error(t, json.Unmarshal([]byte(`"12.3"`), &id))
	})

	t.Run("usable as map key", func(t *testing.T) {
		m := map[Id]string{
			{Index: 1, Generation: 1}: "a",
			{Index: 1, Generation: 2}: "b",
		}

		require.Len(t, m, 2)
		require.Equal(t, "b", m[Id{Index: 1, Generation: 2}])
	})
}
