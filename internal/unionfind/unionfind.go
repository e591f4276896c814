// Package unionfind implements a dense-indexed disjoint set with class
// enumeration, member iteration and class erasure.
//
// The structure is backed by flat parent/rank/sibling slices indexed by
// NodeID. Find uses path compression and Union uses union by rank, so a
// build of M unions costs O(M·α(M)). Members of a class are linked in a
// circular sibling list spliced in O(1) on every union, which makes member
// iteration possible without a per-class container.
package unionfind

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/trackgo/core"
)

// DisjointSet is a union-find over dense NodeIDs.
//
// It is not safe for concurrent mutation: Find compresses paths and
// therefore writes shared parent pointers. The owning builder serializes
// all access during construction.
type DisjointSet struct {
	parent  []core.NodeID
	rank    []uint8
	sibling []core.NodeID
	erased  *roaring.Bitmap
}

// New creates an empty DisjointSet with capacity for n nodes.
func New(n int) *DisjointSet {
	return &DisjointSet{
		parent:  make([]core.NodeID, 0, n),
		rank:    make([]uint8, 0, n),
		sibling: make([]core.NodeID, 0, n),
		erased:  roaring.New(),
	}
}

// MakeSet allocates a new singleton class and returns its node id.
func (ds *DisjointSet) MakeSet() core.NodeID {
	id := core.NodeID(len(ds.parent))
	ds.parent = append(ds.parent, id)
	ds.rank = append(ds.rank, 0)
	ds.sibling = append(ds.sibling, id)
	return id
}

// Len returns the total number of nodes.
func (ds *DisjointSet) Len() int {
	return len(ds.parent)
}

// Find returns the class representative of x, compressing the path.
func (ds *DisjointSet) Find(x core.NodeID) core.NodeID {
	root := x
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	for ds.parent[x] != root {
		ds.parent[x], x = root, ds.parent[x]
	}
	return root
}

// Union merges the classes of a and b. A no-op if they already share one.
func (ds *DisjointSet) Union(a, b core.NodeID) {
	ra, rb := ds.Find(a), ds.Find(b)
	if ra == rb {
		return
	}
	if ds.rank[ra] < ds.rank[rb] {
		ra, rb = rb, ra
	}
	ds.parent[rb] = ra
	if ds.rank[ra] == ds.rank[rb] {
		ds.rank[ra]++
	}
	// Splice the two circular member lists.
	ds.sibling[ra], ds.sibling[rb] = ds.sibling[rb], ds.sibling[ra]
}

// EraseClass removes the class rooted at root from enumeration. The nodes
// remain allocated; the class simply stops appearing in Classes and in
// NumClasses.
func (ds *DisjointSet) EraseClass(root core.NodeID) {
	ds.erased.Add(uint32(root))
}

// NumClasses returns the number of live (non-erased) classes.
func (ds *DisjointSet) NumClasses() int {
	n := 0
	for id := range ds.parent {
		node := core.NodeID(id)
		if ds.parent[node] == node && !ds.erased.Contains(uint32(node)) {
			n++
		}
	}
	return n
}

// Classes iterates the representatives of all live classes in ascending
// node-id order. The order is deterministic for a fixed union history.
// Erasing a class while iterating is unsafe; collect first, erase after.
func (ds *DisjointSet) Classes() iter.Seq[core.NodeID] {
	return func(yield func(core.NodeID) bool) {
		for id := range ds.parent {
			node := core.NodeID(id)
			if ds.parent[node] != node || ds.erased.Contains(uint32(node)) {
				continue
			}
			if !yield(node) {
				return
			}
		}
	}
}

// Members iterates every node in the class rooted at root, starting with
// root itself. root must be a class representative as returned by Find or
// Classes.
func (ds *DisjointSet) Members(root core.NodeID) iter.Seq[core.NodeID] {
	return func(yield func(core.NodeID) bool) {
		node := root
		for {
			if !yield(node) {
				return
			}
			node = ds.sibling[node]
			if node == root {
				return
			}
		}
	}
}
