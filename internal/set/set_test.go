package set

import (
	"cmp"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	var s Set[int]

	require.False(t, s.Has(1))
	require.Equal(t, 0, s.Len())

	require.True(t, s.Insert(3))
	require.True(t, s.Insert(1))
	require.False(t, s.Insert(3))

	require.True(t, s.Has(3))
	require.Equal(t, 2, s.Len())
	require.Equal(t, []int{1, 3}, s.Sorted(cmp.Compare[int]))

	require.True(t, s.Remove(3))
	require.False(t, s.Remove(3))

	value, ok := s.PopOne()
	require.True(t, ok)
	require.Equal(t, 1, value)

	_, ok = s.PopOne()
	require.False(t, ok)
}

func TestSet_JSON(t *testing.T) {
	encoded, err := json.Marshal(Of(2, 1, 2))
	require.NoError(t, err)

	var decoded Set[int]
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, []int{1, 2}, decoded.Sorted(cmp.Compare[int]))

	empty, err := json.Marshal(Set[string]{})
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(empty))
}

type version struct {
	major, minor int
}

func (v version) Compare(other version) int {
	if c := cmp.Compare(v.major, other.major); c != 0 {
		return c
	}

	return cmp.Compare(v.minor, other.minor)
}

func TestSet_JSONIsSorted(t *testing.T) {
	encoded, err := json.Marshal(Of(5, 3, 9, 1, 7))
	require.NoError(t, err)
	require.Equal(t, `[1,3,5,7,9]`, string(encoded))

	encoded, err = json.Marshal(Of("c", "a", "b"))
	require.NoError(t, err)
	require.Equal(t, `["a","b","c"]`, string(encoded))

	values := []version{{2, 0}, {1, 3}, {1, 1}}
	sortValues(values)
	require.Equal(t, []version{{1, 1}, {1, 3}, {2, 0}}, values)
}
