package agent

import "errors"

// ErrUnknownEventType is returned by Fold when no reducer is registered for
// an event's type. The engine wraps this as handlerr.KindUnknownEvent — a
// fatal, unrecoverable condition, since an agent's state can never be
// trusted again once replay encounters a kind it cannot fold.
var ErrUnknownEventType = errors.New("agent: unknown event type")

// ErrEntityNotFound is returned by a reducer when an event references an
// entity (location, machine, staff member, vendor, loan, fine, scandal,
// alliance) that no longer exists in state. Since every event was produced
// by a decider that itself checked existence against the same state lineage,
// this should never happen in practice — its presence here is only to catch
// a corrupted or hand-edited journal, which is exactly when a reducer must
// refuse to guess rather than silently drop the event.
var ErrEntityNotFound = errors.New("agent: event references missing entity")
