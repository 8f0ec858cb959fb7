package projects

// Board is the in-memory model of the target board's per-status ordered
// item lists. It is seeded once per run from the full paginated read
// (ordered by position) and updated after every status or position change,
// so the reconciler can decide whether a reposition mutation is needed
// without re-reading the remote board.
//
// Columns are keyed by status option ID; items with no status value live
// under the empty key. The board assumes a single writer per run.
type Board struct {
	columns map[string][]*Item
	status  map[*Item]string
	member  map[*Item]bool
}

// NewBoard returns an empty board cache.
func NewBoard() *Board {
	return &Board{
		columns: make(map[string][]*Item),
		status:  make(map[*Item]string),
		member:  make(map[*Item]bool),
	}
}

// Append places the item at the tail of the given status column, removing
// it from its previous column first. A status change implicitly resets the
// item's position history, which is exactly the remote behavior.
func (b *Board) Append(item *Item, statusID string) {
	b.detach(item)
	b.columns[statusID] = append(b.columns[statusID], item)
	b.status[item] = statusID
	b.member[item] = true
}

// Remove drops the item from the board cache entirely.
func (b *Board) Remove(item *Item) {
	b.detach(item)
	delete(b.member, item)
}

// Status returns the item's current status option ID and whether the item
// is on the board at all.
func (b *Board) Status(item *Item) (string, bool) {
	if !b.member[item] {
		return "", false
	}
	return b.status[item], true
}

// Column returns the ordered items currently cached for a status.
func (b *Board) Column(statusID string) []*Item {
	return b.columns[statusID]
}

// IsAfter reports whether the item already sits immediately after the item
// with ID afterID within its column. An empty afterID means "top of the
// column". Items not on the board are never "after" anything.
func (b *Board) IsAfter(item *Item, afterID string) bool {
	if !b.member[item] {
		return false
	}
	col := b.columns[b.status[item]]
	pos := indexOf(col, item)
	if pos < 0 {
		return false
	}
	return pos == indexOfID(col, afterID)+1
}

// MoveAfter moves the item to the slot immediately after the item with ID
// afterID within its current column. An empty afterID moves it to the top.
func (b *Board) MoveAfter(item *Item, afterID string) {
	if !b.member[item] {
		return
	}
	statusID := b.status[item]
	col := b.columns[statusID]
	pos := indexOf(col, item)
	if pos < 0 {
		return
	}
	col = append(col[:pos], col[pos+1:]...)
	at := indexOfID(col, afterID) + 1
	col = append(col, nil)
	copy(col[at+1:], col[at:])
	col[at] = item
	b.columns[statusID] = col
}

// detach removes the item from whatever column currently holds it.
func (b *Board) detach(item *Item) {
	if !b.member[item] {
		return
	}
	statusID := b.status[item]
	col := b.columns[statusID]
	if pos := indexOf(col, item); pos >= 0 {
		b.columns[statusID] = append(col[:pos], col[pos+1:]...)
	}
	delete(b.status, item)
}

func indexOf(col []*Item, item *Item) int {
	for i, it := range col {
		if it == item {
			return i
		}
	}
	return -1
}

// indexOfID returns the position of the item with the given ID, or -1 for
// an empty ID (top of column) or an ID not present in the column.
func indexOfID(col []*Item, id string) int {
	if id == "" {
		return -1
	}
	for i, it := range col {
		if it.ID == id {
			return i
		}
	}
	return -1
}
