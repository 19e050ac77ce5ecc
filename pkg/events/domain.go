package events

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ghuser/pantry/pkg/auth"
	"github.com/ghuser/pantry/pkg/kernel"
)

// PublishDomainEvents publishes events recorded by an aggregate inside tx,
// one message per event on the event's topic. The authenticated actor in ctx,
// if any, is stamped on each event first.
func (q *EventBus) PublishDomainEvents(ctx context.Context, tx *sql.Tx, evts []kernel.Event) error {
	actorID, _ := auth.ActorIDFromCtx(ctx)
	for _, e := range evts {
		meta := e.Meta()
		meta.SetActor(actorID)
		msg, err := NewMessage(meta.EventID, meta.Version, e)
		if err != nil {
			return err
		}
		if err := q.PublishTx(ctx, tx, e.Topic(), msg); err != nil {
			return fmt.Errorf("publish %s: %w", e.Topic(), err)
		}
	}
	return nil
}
