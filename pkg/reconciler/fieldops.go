package reconciler

import (
	"context"
	"strings"

	"github.com/pretagov/projectsmigrator/pkg/convert"
	"github.com/pretagov/projectsmigrator/pkg/errors"
	"github.com/pretagov/projectsmigrator/pkg/fields"
	"github.com/pretagov/projectsmigrator/pkg/logging"
	"github.com/pretagov/projectsmigrator/pkg/projects"
	"github.com/pretagov/projectsmigrator/pkg/zenhub"
)

// changeTag labels a write in the per-item log line, e.g. "STA*" for a
// Status change.
func changeTag(name string) string {
	if len(name) > 3 {
		name = name[:3]
	}
	return strings.ToUpper(name) + "*"
}

// applyField transfers one source field to one destination. It returns
// a change tag when a write happened and "" when the item already
// matched.
func (r *Reconciler) applyField(ctx context.Context, state *workspaceState, issue *zenhub.Issue, item *projects.Item, src string, dest fields.Destination, status *projects.Option, folded bool) (string, error) {
	if dest.Kind == fields.None {
		return "", nil
	}
	if dest.Kind == fields.Position {
		// A folded pull request holds no board slot of its own, so it is
		// never repositioned.
		if folded {
			return "", nil
		}
		return r.applyPosition(ctx, item, status)
	}

	value, err := r.sourceValue(ctx, state, issue, src)
	if err != nil {
		return "", err
	}
	if value.empty() {
		return "", nil
	}

	switch dest.Kind {
	case fields.Body:
		return r.applyBody(item, src, value)
	case fields.LinkedPRs:
		return r.applyLinkedPRs(ctx, item, dest.Field, value.refs)
	case fields.FieldDest:
		if len(value.refs) > 0 {
			return r.propagateToRefs(ctx, item, dest, value.refs)
		}
		if folded || !item.OnBoard() {
			return "", nil
		}
		changed, err := r.setField(ctx, item, dest, value)
		if err != nil || !changed {
			return "", err
		}
		return changeTag(dest.Field.Name), nil
	}
	return "", nil
}

// applyPosition moves the item directly after the previous item placed
// in the same status column. The first item of a column goes to the top
// of the board.
func (r *Reconciler) applyPosition(ctx context.Context, item *projects.Item, status *projects.Option) (string, error) {
	if !item.OnBoard() || status == nil {
		return "", nil
	}
	afterID := ""
	if prev := r.last[status.ID]; prev != nil && prev != item {
		afterID = prev.ID
	}
	if r.board.IsAfter(item, afterID) {
		return "", nil
	}
	if err := r.writePosition(ctx, item, afterID); err != nil {
		return "", errors.WrapItem(item.Key().String(), "move-item", err)
	}
	r.board.MoveAfter(item, afterID)
	r.result.Updated++
	if afterID == "" {
		return "TOP*", nil
	}
	return "POS*", nil
}

// applyBody buffers relationship or scalar text for the item's body.
// Reference lines become checklist entries; Linked Issues lines carry a
// "fixes" prefix so GitHub links the pull request when the body lands.
func (r *Reconciler) applyBody(item *projects.Item, src string, value sourceValue) (string, error) {
	if item.Content == nil {
		return "", nil
	}
	added := false
	if len(value.refs) > 0 {
		prefix := "- [ ] "
		if src == "Linked Issues" {
			prefix = "- [ ] fixes "
		}
		for _, ref := range value.refs {
			if r.agg.Add(item.Content, src, prefix+projects.ShortURL(ref.URL)) {
				added = true
			}
		}
	} else {
		added = r.agg.Add(item.Content, src, "- "+value.from())
	}
	if !added {
		return "", nil
	}
	return changeTag(src), nil
}

// applyLinkedPRs handles the board's linked-pull-requests field, which
// cannot be written directly. Instead the pull request's body gains a
// "fixes" line per connected issue, which makes GitHub create the link.
// Issues whose item already lists this pull request are left alone.
func (r *Reconciler) applyLinkedPRs(ctx context.Context, item *projects.Item, field *projects.Field, refs []zenhub.IssueRef) (string, error) {
	if item.Content == nil {
		return "", nil
	}
	prURL := item.Content.URL
	added := false
	for _, ref := range refs {
		if sub, ok := r.items[ref.Identity]; ok && linksPull(sub, field, prURL) {
			continue
		}
		if !projects.SameOwner(ref.Identity.Owner, item.Key().Owner) {
			logging.Debug().
				Str("item", item.Key().String()).
				Str("issue", ref.Identity.String()).
				Msg("skipping cross-owner pull request link")
			continue
		}
		if r.agg.Add(item.Content, "Linked Issues", "- [ ] fixes "+projects.ShortURL(ref.URL)) {
			added = true
		}
	}
	if !added {
		return "", nil
	}
	return changeTag(field.Name), nil
}

// linksPull reports whether an issue item's linked-PRs field already
// mentions the pull request.
func linksPull(item *projects.Item, field *projects.Field, prURL string) bool {
	for _, url := range item.Value(field.ID).PullRequests {
		if url == prURL {
			return true
		}
	}
	return false
}

// propagateToRefs writes this issue's title into a field of every
// referenced issue's item, e.g. stamping an epic's title onto the Epic
// field of each child. References without board membership are skipped.
func (r *Reconciler) propagateToRefs(ctx context.Context, item *projects.Item, dest fields.Destination, refs []zenhub.IssueRef) (string, error) {
	changedAny := false
	for _, ref := range refs {
		sub, err := r.itemFor(ctx, ref.Identity)
		if err != nil {
			r.itemErr(err)
			continue
		}
		if !sub.OnBoard() {
			continue
		}
		changed, err := r.setField(ctx, sub, dest, sourceValue{text: item.Title()})
		if err != nil {
			r.itemErr(err)
			continue
		}
		changedAny = changedAny || changed
	}
	if !changedAny {
		return "", nil
	}
	return changeTag(dest.Field.Name), nil
}

func convertOption(value sourceValue, dest fields.Destination, field *projects.Field) *projects.Option {
	return convert.Option(value.text, value.number, dest.Conversion, field, value.nameDomain, value.numberDomain)
}

// setField converts the source value for the destination field and
// writes it when it differs from the item's current value. Option
// translations are tallied; a value outside the field's options clears
// the field.
func (r *Reconciler) setField(ctx context.Context, item *projects.Item, dest fields.Destination, value sourceValue) (bool, error) {
	field := dest.Field
	var desired projects.Value
	var toName string
	switch {
	case field.HasOptions():
		opt := convertOption(value, dest, field)
		if opt != nil {
			desired = projects.OptionValue(opt.ID)
			toName = opt.Name
		}
	case value.number != nil:
		desired = projects.NumberValue(*value.number)
	default:
		desired = projects.TextValue(value.text)
	}

	current := item.Value(field.ID)
	if current.Equal(desired) {
		return false, nil
	}

	if desired.IsZero() {
		if err := r.clearFieldValue(ctx, item, field); err != nil {
			return false, errors.WrapItem(item.Key().String(), "clear-field", err)
		}
	} else {
		if err := r.writeFieldValue(ctx, item, field, desired); err != nil {
			return false, errors.WrapItem(item.Key().String(), "set-field", err)
		}
	}
	item.SetValue(field.ID, desired)
	if field.HasOptions() {
		r.result.recordConversion(field.Name, value.from(), toName)
	}
	if r.statusField != nil && field.ID == r.statusField.ID {
		r.board.Append(item, desired.OptionID)
	}
	r.result.Updated++
	return true, nil
}
