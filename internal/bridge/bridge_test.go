package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAndDrainFrameAppliesInOrder(t *testing.T) {
	b := New(4)
	b.Register("md")

	require.True(t, b.Submit("md", Op{Type: OpAddConceal, Buffer: "doc", Namespace: "md-syntax", Start: 0, End: 2}))
	require.True(t, b.Submit("md", Op{Type: OpAddOverlay, Buffer: "doc", Namespace: "md-syntax", Start: 2, End: 6}))

	var applied []OpType
	b.DrainFrame(func(plugin string, op Op) error {
		assert.Equal(t, "md", plugin)
		applied = append(applied, op.Type)
		return nil
	})

	require.Equal(t, []OpType{OpAddConceal, OpAddOverlay}, applied)

	// A second drain with nothing queued applies nothing.
	applied = nil
	b.DrainFrame(func(plugin string, op Op) error {
		applied = append(applied, op.Type)
		return nil
	})
	assert.Empty(t, applied)
}

func TestSubmitDropsWhenQueueFull(t *testing.T) {
	b := New(1)
	b.Register("slow")

	require.True(t, b.Submit("slow", Op{Type: OpRefreshLines, Buffer: "doc"}))
	assert.False(t, b.Submit("slow", Op{Type: OpRefreshLines, Buffer: "doc"}))
}

func TestSubmitFailsForUnregisteredOrCrashedPlugin(t *testing.T) {
	b := New(4)
	assert.False(t, b.Submit("ghost", Op{Type: OpRefreshLines}))

	b.Register("flaky")
	b.Crash("flaky")
	assert.False(t, b.Submit("flaky", Op{Type: OpRefreshLines}))
}

func TestEmitAndDeliverFrameRunsHandlerToCompletion(t *testing.T) {
	b := New(4)
	b.Register("a")
	b.Register("c")

	b.Emit("a", Event{Type: EventBufferActivated, Buffer: "doc"})
	b.Emit("", Event{Type: EventBufferClosed, Buffer: "doc"}) // broadcast

	delivered := map[string][]EventType{}
	b.DeliverFrame(func(plugin string, ev Event) {
		delivered[plugin] = append(delivered[plugin], ev.Type)
	})

	assert.ElementsMatch(t, []EventType{EventBufferActivated, EventBufferClosed}, delivered["a"])
	assert.ElementsMatch(t, []EventType{EventBufferClosed}, delivered["c"])

	// Events are drained, not retained.
	delivered = map[string][]EventType{}
	b.DeliverFrame(func(plugin string, ev Event) { delivered[plugin] = append(delivered[plugin], ev.Type) })
	assert.Empty(t, delivered)
}

// TestCoalesceViewportChangedKeepsOnlyLatest grounds §4.7's "coalesced; at
// most one per frame" requirement.
func TestCoalesceViewportChangedKeepsOnlyLatest(t *testing.T) {
	b := New(4)
	b.Register("p")

	b.CoalesceViewportChanged("p", Event{Type: EventViewportChanged, Split: "s1", TopByte: 0})
	b.CoalesceViewportChanged("p", Event{Type: EventViewportChanged, Split: "s1", TopByte: 40})
	b.CoalesceViewportChanged("p", Event{Type: EventViewportChanged, Split: "s2", TopByte: 5})

	var delivered []Event
	b.DeliverFrame(func(plugin string, ev Event) { delivered = append(delivered, ev) })

	require.Len(t, delivered, 2)
	byTop := map[string]int{}
	for _, ev := range delivered {
		byTop[ev.Split] = ev.TopByte
	}
	assert.Equal(t, 40, byTop["s1"])
	assert.Equal(t, 5, byTop["s2"])
}

// TestCrashMarksUnhealthyAndReportsNamespaces grounds §7 PluginCrash.
func TestCrashMarksUnhealthyAndReportsNamespaces(t *testing.T) {
	b := New(4)
	b.Register("md")
	b.Submit("md", Op{Type: OpAddOverlay, Buffer: "doc", Namespace: "md-emphasis"})
	b.Submit("md", Op{Type: OpAddConceal, Buffer: "doc", Namespace: "md-syntax"})

	require.True(t, b.Healthy("md"))
	namespaces := b.Crash("md")
	assert.False(t, b.Healthy("md"))
	assert.ElementsMatch(t, []string{"md-emphasis", "md-syntax"}, namespaces)
}

// TestDiscardBufferDropsStaleWork grounds §5 Cancellation: queued ops and
// pending events for a closed buffer never apply.
func TestDiscardBufferDropsStaleWork(t *testing.T) {
	b := New(4)
	b.Register("p")
	b.Submit("p", Op{Type: OpAddOverlay, Buffer: "closed-doc", Namespace: "ns"})
	b.Submit("p", Op{Type: OpAddOverlay, Buffer: "other-doc", Namespace: "ns"})
	b.Emit("p", Event{Type: EventLinesChanged, Buffer: "closed-doc"})
	b.Emit("p", Event{Type: EventLinesChanged, Buffer: "other-doc"})

	b.DiscardBuffer("closed-doc")

	var appliedBuffers []string
	b.DrainFrame(func(plugin string, op Op) error {
		appliedBuffers = append(appliedBuffers, string(op.Buffer))
		return nil
	})
	assert.Equal(t, []string{"other-doc"}, appliedBuffers)

	var delivered []string
	b.DeliverFrame(func(plugin string, ev Event) { delivered = append(delivered, string(ev.Buffer)) })
	assert.Equal(t, []string{"other-doc"}, delivered)
}
