package reconciler

import (
	"context"

	"github.com/pretagov/projectsmigrator/pkg/logging"
	"github.com/pretagov/projectsmigrator/pkg/projects"
)

// Mutation helpers. Each one honors dry-run by skipping the remote call
// while still letting the caller update the local caches, so a dry run
// reports the same work a real run would perform.

func (r *Reconciler) addItem(ctx context.Context, content *projects.Content) (*projects.Item, error) {
	if r.opts.DryRun {
		logging.Debug().Str("item", content.Identity.String()).Msg("add item (dry run)")
		return projects.NewItem("dry-run/"+content.Identity.String(), content), nil
	}
	item, err := r.target.AddItem(ctx, r.project.ID, content.ID)
	if err != nil {
		return nil, err
	}
	if item.Content == nil {
		item.Content = content
	}
	return item, nil
}

func (r *Reconciler) removeItem(ctx context.Context, item *projects.Item) error {
	if r.opts.DryRun {
		logging.Debug().Str("item", item.Key().String()).Msg("remove item (dry run)")
		return nil
	}
	return r.target.RemoveItem(ctx, r.project.ID, item.ID)
}

func (r *Reconciler) writeFieldValue(ctx context.Context, item *projects.Item, field *projects.Field, v projects.Value) error {
	if r.opts.DryRun {
		logging.Debug().Str("item", item.Key().String()).Str("field", field.Name).Msg("set field (dry run)")
		return nil
	}
	return r.target.SetFieldValue(ctx, r.project.ID, item.ID, field, v)
}

func (r *Reconciler) clearFieldValue(ctx context.Context, item *projects.Item, field *projects.Field) error {
	if r.opts.DryRun {
		logging.Debug().Str("item", item.Key().String()).Str("field", field.Name).Msg("clear field (dry run)")
		return nil
	}
	return r.target.ClearFieldValue(ctx, r.project.ID, item.ID, field.ID)
}

func (r *Reconciler) writePosition(ctx context.Context, item *projects.Item, afterID string) error {
	if r.opts.DryRun {
		logging.Debug().Str("item", item.Key().String()).Msg("move item (dry run)")
		return nil
	}
	return r.target.SetPosition(ctx, r.project.ID, item.ID, afterID)
}
