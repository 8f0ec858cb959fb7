package projects

import "strings"

// ValueKind tags the variant held by a Value.
type ValueKind int

// Value kinds, one per settable field value shape.
const (
	ValueNone ValueKind = iota
	ValueText
	ValueNumber
	ValueOption
	ValuePullRequests
)

// Value is one stored field value on a board item.
type Value struct {
	Kind         ValueKind
	Text         string
	Number       float64
	OptionID     string
	PullRequests []string // content URLs of linked pull requests
}

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value { return Value{Kind: ValueNumber, Number: f} }

// OptionValue returns a single-select Value holding an option ID.
func OptionValue(id string) Value { return Value{Kind: ValueOption, OptionID: id} }

// IsZero reports whether the value is unset.
func (v Value) IsZero() bool { return v.Kind == ValueNone }

// Equal reports whether two values are identical. Used to decide whether a
// remote field mutation is needed at all.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueText:
		return v.Text == o.Text
	case ValueNumber:
		return v.Number == o.Number
	case ValueOption:
		return v.OptionID == o.OptionID
	case ValuePullRequests:
		if len(v.PullRequests) != len(o.PullRequests) {
			return false
		}
		for i := range v.PullRequests {
			if v.PullRequests[i] != o.PullRequests[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Content is the linkable issue or pull request behind a board item.
type Content struct {
	ID       string // content node ID
	Identity Identity
	Title    string
	URL      string
	Body     string
	Archived bool // owning repository is archived
}

// IsPullRequest reports whether the content is a pull request.
func (c *Content) IsPullRequest() bool {
	return strings.Contains(c.URL, "/pull/")
}

// Item is one entry on the target board. An Item with an empty ID is a
// provisional record: content fetched by identity but not (or not yet) a
// board member.
type Item struct {
	ID      string
	Content *Content
	Values  map[string]Value // current field values keyed by field ID
}

// NewItem returns an item wrapping the given content.
func NewItem(id string, content *Content) *Item {
	return &Item{ID: id, Content: content, Values: make(map[string]Value)}
}

// OnBoard reports whether the item is a member of the target board.
func (it *Item) OnBoard() bool { return it.ID != "" }

// IsDraft reports whether the item has no linkable content.
// Draft items are never auto-removed by the pruner.
func (it *Item) IsDraft() bool { return it.Content == nil }

// Key returns the content identity, or the zero Identity for drafts.
func (it *Item) Key() Identity {
	if it.Content == nil {
		return Identity{}
	}
	return it.Content.Identity
}

// Title returns the content title, or "" for drafts.
func (it *Item) Title() string {
	if it.Content == nil {
		return ""
	}
	return it.Content.Title
}

// Value returns the stored value for a field ID.
func (it *Item) Value(fieldID string) Value {
	if it.Values == nil {
		return Value{}
	}
	return it.Values[fieldID]
}

// SetValue records a field value locally.
func (it *Item) SetValue(fieldID string, v Value) {
	if it.Values == nil {
		it.Values = make(map[string]Value)
	}
	if v.IsZero() {
		delete(it.Values, fieldID)
		return
	}
	it.Values[fieldID] = v
}
