// Package decoration implements Fresh's DecorationStore: overlays,
// conceals, soft breaks, and virtual lines, all anchored to the markers a
// Buffer mints rather than to raw byte offsets, and grouped under
// plugin-chosen namespaces for bulk clearing.
package decoration

import (
	"sort"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/elaurentium/fresh/internal/buffer"
	"github.com/elaurentium/fresh/pkg/goturbotui"
)

// Kind tags which variant a Decoration is.
type Kind int

const (
	KindOverlay Kind = iota
	KindConceal
	KindSoftBreak
	KindVirtualLine
)

// VirtualPosition selects where a VirtualLine decoration is injected
// relative to its anchor line.
type VirtualPosition int

const (
	VirtualAbove VirtualPosition = iota
	VirtualBelow
	VirtualAt
)

// OverlayStyle is the style-hint payload of an Overlay decoration. It wraps
// pkg/goturbotui's Style (fg/bg/bold/italic/underline/strikethrough) with
// the one field that toolkit has no use for outside Fresh: a hyperlink URL.
type OverlayStyle struct {
	goturbotui.Style
	URL string
}

// StyledSpan is one run of text with its own style, used by VirtualLine
// content — it never carries a source offset, since virtual lines are
// never editable.
type StyledSpan struct {
	Text  string
	Style OverlayStyle
}

// ID identifies one decoration for clearing or overlap-resolution
// bookkeeping.
type ID string

// Decoration is a tagged variant over (start marker, end marker,
// namespace, payload), matching spec.md §3. Only the fields relevant to
// Kind are populated; the rest are zero.
type Decoration struct {
	ID        ID
	Namespace string
	Kind      Kind
	Start     buffer.Marker
	End       buffer.Marker
	Seq       int // insertion order, used for (namespace, insertion time) overlap resolution deterministically
	Inert     bool

	// KindOverlay
	OverlayStyle OverlayStyle

	// KindConceal
	ConcealReplacement *string // nil = hide with nothing in its place

	// KindSoftBreak
	HangingIndent uint16

	// KindVirtualLine
	VirtualPosition VirtualPosition
	VirtualContent  []StyledSpan
}

type indexEntry struct {
	start, end int
	id         ID
}

func lessIndexEntry(a, b *indexEntry) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	if a.end != b.end {
		return a.end < b.end
	}
	return a.id < b.id
}

// Store holds every decoration anchored to one buffer's markers. It is
// co-owned with that buffer: its lifetime is tied to the buffer's.
type Store struct {
	markers *buffer.MarkerStore
	cap     int // DecorationOverflow safety valve, per namespace

	byID map[ID]*Decoration
	ns   map[string]map[ID]bool // namespace -> ids, for O(k) clear_namespace
	tree *btree.BTreeG[*indexEntry]
	seq  int
}

// NewStore creates a decoration store anchored to markers, evicting the
// oldest entry in a namespace once it holds more than capPerNamespace
// decorations (0 disables the cap).
func NewStore(markers *buffer.MarkerStore, capPerNamespace int) *Store {
	return &Store{
		markers: markers,
		cap:     capPerNamespace,
		byID:    make(map[ID]*Decoration),
		ns:      make(map[string]map[ID]bool),
		tree:    btree.NewG[*indexEntry](32, lessIndexEntry),
	}
}

// Add registers a new decoration and returns its id. If the namespace is
// now over capacity, the oldest decoration in that namespace is evicted
// (§7 DecorationOverflow).
func (s *Store) Add(d Decoration) ID {
	d.ID = ID(uuid.New().String())
	d.Seq = s.seq
	s.seq++

	s.byID[d.ID] = &d
	if s.ns[d.Namespace] == nil {
		s.ns[d.Namespace] = make(map[ID]bool)
	}
	s.ns[d.Namespace][d.ID] = true

	s.indexOne(&d)
	s.evictOverflow(d.Namespace)
	return d.ID
}

func (s *Store) evictOverflow(namespace string) {
	if s.cap <= 0 {
		return
	}
	ids := s.ns[namespace]
	if len(ids) <= s.cap {
		return
	}
	// Oldest-first eviction: sort the namespace's ids by insertion Seq.
	ordered := make([]*Decoration, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, s.byID[id])
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })
	for len(ordered) > s.cap {
		s.removeOne(ordered[0].ID)
		ordered = ordered[1:]
	}
}

// ClearNamespace removes every decoration in namespace.
func (s *Store) ClearNamespace(namespace string) {
	ids := s.ns[namespace]
	for id := range ids {
		s.removeOne(id)
	}
	delete(s.ns, namespace)
}

// ClearInRange removes decorations in namespace whose resolved interval
// intersects [start, end).
func (s *Store) ClearInRange(namespace string, start, end int) {
	ids := s.ns[namespace]
	var toRemove []ID
	for id := range ids {
		d := s.byID[id]
		ds, de, ok := s.resolve(d)
		if !ok {
			continue
		}
		if intersects(ds, de, start, end) {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		s.removeOne(id)
	}
}

func (s *Store) removeOne(id ID) {
	d, ok := s.byID[id]
	if !ok {
		return
	}
	if entries := s.ns[d.Namespace]; entries != nil {
		delete(entries, id)
	}
	if ds, de, ok := s.resolve(d); ok {
		s.tree.Delete(&indexEntry{start: ds, end: de, id: id})
	}
	delete(s.byID, id)
}

// Query returns every decoration (across all namespaces) whose resolved
// interval intersects [start, end), most-recently-inserted last so callers
// applying last-write-wins per §4.2 can simply iterate in order.
func (s *Store) Query(start, end int) []Decoration {
	var out []Decoration
	s.tree.Ascend(func(e *indexEntry) bool {
		if intersects(e.start, e.end, start, end) {
			if d, ok := s.byID[e.id]; ok {
				out = append(out, *d)
			}
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Reindex re-resolves every decoration's markers and rebuilds the interval
// index, and flags decorations whose interval has collapsed to zero width
// as Inert. The owner of a Store (whatever also owns the Buffer) calls
// this once after each edit — the marker shift itself already happened
// inside buffer.Buffer.Insert/Delete, so this only re-derives the index
// from already-current marker offsets.
func (s *Store) Reindex(editStart, editEnd int) {
	s.tree.Clear(false)
	for _, d := range s.byID {
		ds, de, ok := s.resolve(d)
		if !ok {
			continue
		}
		if ds == de && ds >= editStart && ds <= editEnd {
			d.Inert = true
		}
		s.tree.ReplaceOrInsert(&indexEntry{start: ds, end: de, id: d.ID})
	}
}

func (s *Store) indexOne(d *Decoration) {
	if ds, de, ok := s.resolve(d); ok {
		s.tree.ReplaceOrInsert(&indexEntry{start: ds, end: de, id: d.ID})
	}
}

func (s *Store) resolve(d *Decoration) (int, int, bool) {
	start, ok := s.markers.Resolve(d.Start)
	if !ok {
		return 0, 0, false
	}
	if d.End.IsZero() {
		return start, start, true
	}
	end, ok := s.markers.Resolve(d.End)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func intersects(aStart, aEnd, bStart, bEnd int) bool {
	if aStart == aEnd {
		return aStart >= bStart && aStart < bEnd || (bStart == bEnd && aStart == bStart)
	}
	return aStart < bEnd && bStart < aEnd
}
