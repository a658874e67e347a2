package ops

import (
	"sort"

	"github.com/jacksmith/shelf/internal/model"
)

// Reindex renumbers one folder bucket densely from 0, keeping the relative
// order of its members. Every mutation that can open a gap or a duplicate
// in a bucket ends by calling it. Links in other buckets are not touched.
func Reindex(links []model.Link, folder *string) {
	key := model.FolderKey(folder)
	idx := bucketIndices(links, key)
	for rank, i := range idx {
		links[i].Order = rank
	}
}

// bucketIndices returns the positions of key's members sorted by order.
// Ties keep slice order.
func bucketIndices(links []model.Link, key string) []int {
	var idx []int
	for i := range links {
		if links[i].Key() == key {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return links[idx[a]].Order < links[idx[b]].Order
	})
	return idx
}

// bucketSize counts the links in key's bucket.
func bucketSize(links []model.Link, key string) int {
	n := 0
	for i := range links {
		if links[i].Key() == key {
			n++
		}
	}
	return n
}

// moveOffsets returns the new arrangement of positions 0..n-1 after moving
// the items at from so they land before the item currently at position to.
// to == n moves them to the end. Out-of-range and repeated source positions
// are ignored; moved items keep their relative order.
func moveOffsets(n int, from []int, to int) []int {
	selected := make(map[int]bool)
	for _, p := range from {
		if p >= 0 && p < n {
			selected[p] = true
		}
	}

	if to < 0 {
		to = 0
	}
	if to > n {
		to = n
	}

	var moved, rest []int
	insert := to
	for p := 0; p < n; p++ {
		if selected[p] {
			moved = append(moved, p)
			if p < to {
				insert--
			}
			continue
		}
		rest = append(rest, p)
	}

	result := make([]int, 0, n)
	result = append(result, rest[:insert]...)
	result = append(result, moved...)
	result = append(result, rest[insert:]...)
	return result
}
