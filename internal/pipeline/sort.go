package pipeline

import (
	"runtime"
	"sort"
	"sync"

	"github.com/tokloom/tokloom/internal/numeric"
	"github.com/tokloom/tokloom/internal/token"
)

// parallelSortThreshold is the smallest slice length worth splitting
// across goroutines; below it, goroutine overhead would dominate the
// sort itself.
const parallelSortThreshold = 4096

// sortTokens implements spec.md §5's optional parallel final sort: an
// ordinary comparison sort, parallelized across goroutines by splitting
// the slice in half, sorting each half concurrently, and merging —
// the idiomatic Go analogue of
// original_source/src/token.hpp's std::execution::par_unseq policy,
// which this rendition replaces with an explicit goroutine
// divide-and-conquer since Go has no standard-library parallel sort
// algorithm, unlike C++'s <execution>.
func sortTokens(tokens []*token.Token, cmp numeric.Comparator, desc, stable, parallel bool) {
	if len(tokens) < 2 {
		return
	}
	less := lessFunc(tokens, cmp, desc)

	if !parallel || len(tokens) < parallelSortThreshold {
		if stable {
			sort.SliceStable(tokens, less)
		} else {
			sort.Slice(tokens, less)
		}
		return
	}

	sorted := parallelMergeSort(tokens, cmp, desc, stable, maxParallelDepth())
	copy(tokens, sorted)
}

func lessFunc(tokens []*token.Token, cmp numeric.Comparator, desc bool) func(i, j int) bool {
	return func(i, j int) bool {
		if desc {
			return cmp.Less(tokens[j].Key(), tokens[i].Key())
		}
		return cmp.Less(tokens[i].Key(), tokens[j].Key())
	}
}

func maxParallelDepth() int {
	n := runtime.GOMAXPROCS(0)
	depth := 0
	for (1 << depth) < n {
		depth++
	}
	return depth
}

func parallelMergeSort(tokens []*token.Token, cmp numeric.Comparator, desc, stable bool, depth int) []*token.Token {
	if len(tokens) < parallelSortThreshold || depth <= 0 {
		out := make([]*token.Token, len(tokens))
		copy(out, tokens)
		less := lessFunc(out, cmp, desc)
		if stable {
			sort.SliceStable(out, less)
		} else {
			sort.Slice(out, less)
		}
		return out
	}

	mid := len(tokens) / 2
	var left, right []*token.Token
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		left = parallelMergeSort(tokens[:mid], cmp, desc, stable, depth-1)
	}()
	go func() {
		defer wg.Done()
		right = parallelMergeSort(tokens[mid:], cmp, desc, stable, depth-1)
	}()
	wg.Wait()

	return mergeTokens(left, right, cmp, desc)
}

// orderedBefore reports whether a sorts strictly before b under the
// current direction.
func orderedBefore(cmp numeric.Comparator, a, b []byte, desc bool) bool {
	if desc {
		return cmp.Less(b, a)
	}
	return cmp.Less(a, b)
}

// mergeTokens merges two already-ordered runs, preferring the left run
// on ties so the merge itself never reorders equal elements relative to
// each other — the stability property a stable sort requires even
// across a goroutine split boundary.
func mergeTokens(left, right []*token.Token, cmp numeric.Comparator, desc bool) []*token.Token {
	out := make([]*token.Token, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if orderedBefore(cmp, right[j].Key(), left[i].Key(), desc) {
			out = append(out, right[j])
			j++
		} else {
			out = append(out, left[i])
			i++
		}
	}
	out = append(out, left[i:]...)
	out = append(out, right[j:]...)
	return out
}
