// Package obsindex implements the deduplicating observation interner used
// during track construction.
//
// It maps an observation identity (view, describer, feature) to a dense
// node id and keeps the reverse table for export. Lookup is sharded by a
// hash of the identity so that interning may run concurrently; the dense
// id space stays canonical because allocation happens while the owning
// shard lock is held.
package obsindex

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/trackgo/core"
)

// numShards is a power of two so shard selection is a mask.
const numShards = 16

type shard struct {
	mu  sync.Mutex
	ids map[core.Observation]core.NodeID
}

// Index interns observation identities into dense node ids.
//
// Intern is safe for concurrent use. Observation and Len must not be
// called concurrently with Intern; the builder only reads the reverse
// table once interning has completed.
type Index struct {
	shards [numShards]shard

	mu      sync.Mutex
	reverse []core.Observation
}

// New creates an empty Index with capacity hints for n observations.
func New(n int) *Index {
	idx := &Index{
		reverse: make([]core.Observation, 0, n),
	}
	perShard := n/numShards + 1
	for i := range idx.shards {
		idx.shards[i].ids = make(map[core.Observation]core.NodeID, perShard)
	}
	return idx
}

func shardOf(o core.Observation) uint64 {
	var buf [9]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(o.View))
	buf[4] = byte(o.Describer)
	binary.LittleEndian.PutUint32(buf[5:9], uint32(o.Feature))
	return xxhash.Sum64(buf[:]) & (numShards - 1)
}

// Intern returns the dense node id for o, allocating one if the identity
// has not been seen before. The second result reports whether a new id
// was created.
func (idx *Index) Intern(o core.Observation) (core.NodeID, bool) {
	s := &idx.shards[shardOf(o)]

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.ids[o]; ok {
		return id, false
	}

	idx.mu.Lock()
	id := core.NodeID(len(idx.reverse))
	idx.reverse = append(idx.reverse, o)
	idx.mu.Unlock()

	s.ids[o] = id
	return id, true
}

// Lookup returns the node id of a previously interned identity.
func (idx *Index) Lookup(o core.Observation) (core.NodeID, bool) {
	s := &idx.shards[shardOf(o)]

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.ids[o]
	return id, ok
}

// Observation returns the identity behind a dense node id.
func (idx *Index) Observation(id core.NodeID) core.Observation {
	return idx.reverse[id]
}

// Len returns the number of distinct interned identities.
func (idx *Index) Len() int {
	return len(idx.reverse)
}
