package uniqueset

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tokloom/tokloom/internal/numeric"
)

func TestOrderedUniqueDedup(t *testing.T) {
	s := NewOrderedUnique[int](numeric.Lexicographic{})
	_, ins1 := s.Insert([]byte("a"), 1)
	_, ins2 := s.Insert([]byte("a"), 2)
	_, ins3 := s.Insert([]byte("b"), 3)
	require.True(t, ins1)
	require.False(t, ins2)
	require.True(t, ins3)
	require.Equal(t, 2, s.Len())
}

func TestOrderedUniqueSortedOutput(t *testing.T) {
	s := NewOrderedUnique[string](numeric.Lexicographic{})
	for _, k := range []string{"banana", "apple", "cherry"} {
		s.Insert([]byte(k), k)
	}
	require.Equal(t, []string{"apple", "banana", "cherry"}, s.Values())
}

func TestHashUniqueDedup(t *testing.T) {
	s := NewHashUnique[int](numeric.Numeric{})
	_, ins1 := s.Insert([]byte("1,234"), 1)
	_, ins2 := s.Insert([]byte("1234"), 2)
	require.True(t, ins1)
	require.False(t, ins2)
	require.Equal(t, 1, s.Len())
}

func TestForgetfulOrderedCap(t *testing.T) {
	s := NewForgetfulOrdered[int](numeric.Lexicographic{}, 2)
	s.Insert([]byte("a"), 1)
	s.Insert([]byte("b"), 2)
	s.Insert([]byte("c"), 3)
	require.Equal(t, 2, s.Len())
	// "a" should have been evicted, least recently used
	_, inserted := s.Insert([]byte("a"), 99)
	require.True(t, inserted, "a should have been forgotten and re-insertable")
}

func TestForgetfulOrderedRefreshKeepsRecent(t *testing.T) {
	s := NewForgetfulOrdered[int](numeric.Lexicographic{}, 2)
	s.Insert([]byte("a"), 1)
	s.Insert([]byte("b"), 2)
	s.Insert([]byte("a"), 1) // refresh a, making b the oldest
	s.Insert([]byte("c"), 3) // should evict b, not a
	_, aInserted := s.Insert([]byte("a"), 1)
	_, bInserted := s.Insert([]byte("b"), 2)
	require.False(t, aInserted, "a was refreshed so should still be present")
	require.True(t, bInserted, "b should have been evicted")
}

func TestForgetfulOrderedZeroCapacityRaisedToOne(t *testing.T) {
	s := NewForgetfulOrdered[int](numeric.Lexicographic{}, 0)
	s.Insert([]byte("a"), 1)
	s.Insert([]byte("b"), 2)
	require.Equal(t, 1, s.Len())
}

func TestForgetfulHashCap(t *testing.T) {
	s := NewForgetfulHash[int](numeric.Lexicographic{}, 2)
	s.Insert([]byte("a"), 1)
	s.Insert([]byte("b"), 2)
	s.Insert([]byte("c"), 3)
	require.Equal(t, 2, s.Len())
}

func TestForgetfulHashRefreshOnDuplicate(t *testing.T) {
	s := NewForgetfulHash[int](numeric.Lexicographic{}, 2)
	s.Insert([]byte("a"), 1)
	s.Insert([]byte("b"), 2)
	_, inserted := s.Insert([]byte("a"), 1)
	require.False(t, inserted)
	s.Insert([]byte("c"), 3) // should evict b (a was just refreshed)
	_, bInserted := s.Insert([]byte("b"), 2)
	require.True(t, bInserted)
}
