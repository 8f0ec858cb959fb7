package projects

import "testing"

func newBoardItems(n int) []*Item {
	items := make([]*Item, n)
	for i := range items {
		items[i] = NewItem(string(rune('A'+i)), nil)
	}
	return items
}

func TestBoardAppendKeepsOrder(t *testing.T) {
	b := NewBoard()
	items := newBoardItems(3)
	for _, it := range items {
		b.Append(it, "todo")
	}
	col := b.Column("todo")
	if len(col) != 3 || col[0] != items[0] || col[2] != items[2] {
		t.Fatalf("column order wrong: %v", col)
	}
}

func TestBoardIsAfter(t *testing.T) {
	b := NewBoard()
	items := newBoardItems(3)
	for _, it := range items {
		b.Append(it, "todo")
	}

	if !b.IsAfter(items[0], "") {
		t.Error("first item should be at top of column")
	}
	if !b.IsAfter(items[1], "A") {
		t.Error("B should be after A")
	}
	if b.IsAfter(items[2], "A") {
		t.Error("C is not immediately after A")
	}
	if b.IsAfter(NewItem("X", nil), "") {
		t.Error("item not on board is never after anything")
	}
}

func TestBoardMoveAfter(t *testing.T) {
	b := NewBoard()
	items := newBoardItems(3) // A B C
	for _, it := range items {
		b.Append(it, "todo")
	}

	b.MoveAfter(items[2], "") // C to top
	col := b.Column("todo")
	if col[0] != items[2] || col[1] != items[0] || col[2] != items[1] {
		t.Fatalf("expected C A B, got %v", ids(col))
	}

	b.MoveAfter(items[2], "B") // C after B (to tail)
	col = b.Column("todo")
	if col[2] != items[2] {
		t.Fatalf("expected C at tail, got %v", ids(col))
	}
	if !b.IsAfter(items[2], "B") {
		t.Error("IsAfter should observe the cached move")
	}
}

func TestBoardStatusChangeResetsPosition(t *testing.T) {
	b := NewBoard()
	items := newBoardItems(2)
	b.Append(items[0], "todo")
	b.Append(items[1], "todo")

	b.Append(items[0], "done") // status change moves to tail of new column
	if got := b.Column("todo"); len(got) != 1 || got[0] != items[1] {
		t.Fatalf("old column should only hold B, got %v", ids(got))
	}
	if got := b.Column("done"); len(got) != 1 || got[0] != items[0] {
		t.Fatalf("new column should hold A at tail, got %v", ids(got))
	}
	if status, ok := b.Status(items[0]); !ok || status != "done" {
		t.Errorf("Status() = %q, %v", status, ok)
	}
}

func TestBoardRemove(t *testing.T) {
	b := NewBoard()
	items := newBoardItems(2)
	b.Append(items[0], "todo")
	b.Append(items[1], "todo")

	b.Remove(items[0])
	if _, ok := b.Status(items[0]); ok {
		t.Error("removed item should not report a status")
	}
	if got := b.Column("todo"); len(got) != 1 {
		t.Fatalf("column should shrink, got %v", ids(got))
	}
}

func ids(col []*Item) []string {
	out := make([]string, len(col))
	for i, it := range col {
		out[i] = it.ID
	}
	return out
}
