package buffer

import (
	"github.com/google/btree"
	"github.com/google/uuid"
)

// Bias selects which side of a deleted range a Marker collapses to.
type Bias int

const (
	// BiasLeft collapses a marker caught inside a deleted range to the
	// start of the edit.
	BiasLeft Bias = iota
	// BiasRight collapses it to the end of the inserted text instead.
	BiasRight
)

// Marker is a stable, opaque handle to a byte offset that a Buffer's
// MarkerStore keeps current across edits. It is comparable and safe to use
// as a map key; it carries no pointer into the buffer's internals.
type Marker struct {
	id uuid.UUID
}

// IsZero reports whether m is the zero Marker (never minted).
func (m Marker) IsZero() bool { return m.id == uuid.Nil }

func (m Marker) String() string { return m.id.String() }

type markerEntry struct {
	id     uuid.UUID
	offset int
	bias   Bias
}

// byOffset orders markerEntry values for the btree index, breaking ties by
// id so that multiple markers at the same offset all have distinct keys.
func byOffset(a, b *markerEntry) bool {
	if a.offset != b.offset {
		return a.offset < b.offset
	}
	return a.id.String() < b.id.String()
}

// MarkerStore holds every live marker minted against one Buffer, indexed
// by offset in a btree so that an edit only has to touch the markers whose
// offset could plausibly shift (§4.1: "O(k log n) where k is affected
// markers").
type MarkerStore struct {
	byID   map[uuid.UUID]*markerEntry
	tree   *btree.BTreeG[*markerEntry]
}

// NewMarkerStore creates an empty marker store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		byID: make(map[uuid.UUID]*markerEntry),
		tree: btree.NewG[*markerEntry](32, byOffset),
	}
}

// Mint registers a new marker at offset with the given bias.
func (s *MarkerStore) Mint(offset int, bias Bias) Marker {
	id := uuid.New()
	e := &markerEntry{id: id, offset: offset, bias: bias}
	s.byID[id] = e
	s.tree.ReplaceOrInsert(e)
	return Marker{id: id}
}

// Resolve returns the marker's current offset, or (0, false) if it was
// never minted in this store (a StaleReference per §7).
func (s *MarkerStore) Resolve(m Marker) (int, bool) {
	e, ok := s.byID[m.id]
	if !ok {
		return 0, false
	}
	return e.offset, true
}

// Release forgets a marker entirely, e.g. when its owning decoration is
// cleared and nothing else references it. It is not required for
// correctness (stale markers simply stop being resolvable) but keeps the
// store from growing unbounded across a long editing session.
func (s *MarkerStore) Release(m Marker) {
	e, ok := s.byID[m.id]
	if !ok {
		return
	}
	s.tree.Delete(e)
	delete(s.byID, m.id)
}

// Shift applies the canonical §3 shift rule for an edit that replaced
// [start, start+deletedLen) with insertedLen bytes, to every marker in the
// store. Markers below start are untouched; markers at or past the deleted
// range move by (insertedLen - deletedLen); markers inside the deleted
// range collapse to start (BiasLeft) or start+insertedLen (BiasRight).
func (s *MarkerStore) Shift(start, deletedLen, insertedLen int) {
	if deletedLen == 0 && insertedLen == 0 {
		return
	}
	end := start + deletedLen
	delta := insertedLen - deletedLen

	// Collect affected entries first: mutating offsets while iterating the
	// btree (whose ordering depends on those offsets) would corrupt it.
	var affected []*markerEntry
	s.tree.AscendGreaterOrEqual(&markerEntry{offset: start}, func(e *markerEntry) bool {
		affected = append(affected, e)
		return true
	})

	for _, e := range affected {
		s.tree.Delete(e)
		switch {
		case e.offset >= end:
			e.offset += delta
		case e.offset >= start:
			if e.bias == BiasLeft {
				e.offset = start
			} else {
				e.offset = start + insertedLen
			}
		}
		s.tree.ReplaceOrInsert(e)
	}
}

// Len reports how many markers are currently live in the store.
func (s *MarkerStore) Len() int {
	return len(s.byID)
}
