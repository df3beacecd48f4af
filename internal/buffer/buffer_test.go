package buffer

import "testing"

func TestInsertAndText(t *testing.T) {
	b := New("b1", "hello world")
	if _, err := b.Insert(5, []byte(",")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	text, err := b.Text(0, b.Len())
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "hello, world" {
		t.Fatalf("got %q, want %q", text, "hello, world")
	}
}

func TestDeleteRange(t *testing.T) {
	b := New("b1", "hello world")
	if _, err := b.Delete(5, 11); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	text, _ := b.Text(0, b.Len())
	if text != "hello" {
		t.Fatalf("got %q, want %q", text, "hello")
	}
}

func TestInsertOutOfBounds(t *testing.T) {
	b := New("b1", "hi")
	if _, err := b.Insert(99, []byte("x")); err != ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestInsertInvalidUTF8(t *testing.T) {
	b := New("b1", "hi")
	if _, err := b.Insert(1, []byte{0xff, 0xfe}); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestInsertRejectsSplittingExistingRune(t *testing.T) {
	// "é" (U+00E9) is two UTF-8 bytes; offset 1 is mid-rune.
	b := New("b1", "é")
	if _, err := b.Insert(1, []byte("x")); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8 for mid-rune insert, got %v", err)
	}
}

func TestMarkerSurvivesEditBeforeIt(t *testing.T) {
	b := New("b1", "0123456789")
	m, err := b.MintMarker(7, BiasLeft)
	if err != nil {
		t.Fatalf("MintMarker failed: %v", err)
	}
	if _, err := b.Insert(3, []byte("xxx")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	off, ok := b.Resolve(m)
	if !ok {
		t.Fatal("marker unexpectedly unresolved")
	}
	if off != 10 {
		t.Fatalf("marker offset = %d, want 10", off)
	}
}

func TestMarkerUntouchedByEditAfterIt(t *testing.T) {
	b := New("b1", "0123456789")
	m, _ := b.MintMarker(2, BiasLeft)
	if _, err := b.Insert(7, []byte("xxx")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	off, _ := b.Resolve(m)
	if off != 2 {
		t.Fatalf("marker offset = %d, want 2 (untouched)", off)
	}
}

func TestMarkerCollapsesOnDeleteByBias(t *testing.T) {
	b := New("b1", "0123456789")
	left, _ := b.MintMarker(5, BiasLeft)
	right, _ := b.MintMarker(5, BiasRight)
	if _, err := b.Delete(3, 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	loff, _ := b.Resolve(left)
	roff, _ := b.Resolve(right)
	if loff != 3 {
		t.Fatalf("left-biased marker = %d, want 3", loff)
	}
	if roff != 3 {
		t.Fatalf("right-biased marker = %d, want 3 (insertedLen=0)", roff)
	}
}

func TestLineOfAndOffsetOf(t *testing.T) {
	b := New("b1", "alpha\nbeta\ngamma")
	if b.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", b.LineCount())
	}
	if got := b.LineOf(7); got != 1 {
		t.Fatalf("LineOf(7) = %d, want 1", got)
	}
	off, err := b.OffsetOf(2, 0)
	if err != nil {
		t.Fatalf("OffsetOf failed: %v", err)
	}
	if off != 11 {
		t.Fatalf("OffsetOf(2,0) = %d, want 11", off)
	}
}

func TestEditLogRecordsUndoInformation(t *testing.T) {
	b := New("b1", "hello")
	if _, err := b.Delete(0, 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	log := b.EditLog()
	if len(log) != 1 {
		t.Fatalf("EditLog length = %d, want 1", len(log))
	}
	if string(log[0].Deleted) != "hello" {
		t.Fatalf("Deleted = %q, want %q", log[0].Deleted, "hello")
	}
}
