package pipeline

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tokloom/tokloom/internal/numeric"
	"github.com/tokloom/tokloom/internal/token"
)

func tokensOf(ss ...string) []*token.Token {
	out := make([]*token.Token, len(ss))
	for i, s := range ss {
		out[i] = token.New([]byte(s))
	}
	return out
}

func keys(ts []*token.Token) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t.Key())
	}
	return out
}

func TestSortTokensAscending(t *testing.T) {
	ts := tokensOf("banana", "apple", "cherry")
	sortTokens(ts, numeric.Lexicographic{}, false, false, false)
	require.Equal(t, []string{"apple", "banana", "cherry"}, keys(ts))
}

func TestSortTokensDescending(t *testing.T) {
	ts := tokensOf("banana", "apple", "cherry")
	sortTokens(ts, numeric.Lexicographic{}, true, false, false)
	require.Equal(t, []string{"cherry", "banana", "apple"}, keys(ts))
}

func TestSortTokensParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	n := parallelSortThreshold * 3
	ss := make([]string, n)
	for i := range ss {
		ss[i] = fmt.Sprintf("%08d", r.Intn(1_000_000))
	}

	seq := tokensOf(ss...)
	sortTokens(seq, numeric.Numeric{}, false, true, false)

	par := tokensOf(ss...)
	sortTokens(par, numeric.Numeric{}, false, true, true)

	require.Equal(t, keys(seq), keys(par))
}

func TestSortTokensStablePreservesInputOrderForEqualKeys(t *testing.T) {
	type pair struct {
		key string
		tag string
	}
	pairs := []pair{{"a", "1"}, {"a", "2"}, {"b", "1"}, {"a", "3"}}
	ts := make([]*token.Token, len(pairs))
	for i, p := range pairs {
		ts[i] = token.New([]byte(p.key + ":" + p.tag))
		field := [2]int{0, 1}
		ts[i].Field = &field
	}
	sortTokens(ts, numeric.Lexicographic{}, false, true, false)

	var tags []string
	for _, tok := range ts {
		tags = append(tags, string(tok.Buffer))
	}
	require.Equal(t, []string{"a:1", "a:2", "a:3", "b:1"}, tags)
}
