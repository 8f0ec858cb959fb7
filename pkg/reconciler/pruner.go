package reconciler

import (
	"context"

	"github.com/pretagov/projectsmigrator/pkg/errors"
	"github.com/pretagov/projectsmigrator/pkg/logging"
)

// prune removes board items no selected workspace mentioned. Only items
// from the initial board read are candidates; drafts are never removed
// because they have no linkable content to match against. With removal
// disabled the candidates are logged and kept.
func (r *Reconciler) prune(ctx context.Context) {
	for _, item := range r.initial {
		if item.IsDraft() {
			logging.Debug().Str("title", item.Title()).Msg("keeping draft item")
			continue
		}
		key := item.Key()
		if r.seen[key] {
			continue
		}
		if r.opts.DisableRemove {
			logging.Info().Str("item", key.String()).Str("title", item.Title()).Msg("not removed, removal disabled")
			continue
		}
		if err := r.removeItem(ctx, item); err != nil {
			r.itemErr(errors.WrapItem(key.String(), "remove-item", err))
			continue
		}
		r.board.Remove(item)
		delete(r.items, key)
		r.result.Removed++
		logging.Info().Str("item", key.String()).Str("title", item.Title()).Msg("removed")
	}
}
