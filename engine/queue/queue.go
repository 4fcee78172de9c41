// Package queue implements the per-turn action queue: a pending deque plus
// a single "current" slot for the action being presented.
package queue

import "github.com/nathoo/battlecore/types"

// MoveQueue holds the actions of one turn. Follow-up actions produced while
// resolving the current action are pushed to the front so they run next.
type MoveQueue struct {
	actions []types.BattleActionInstance
	current *types.BattleActionInstance
}

// New creates a queue holding actions in order.
func New(actions []types.BattleActionInstance) *MoveQueue {
	q := &MoveQueue{actions: make([]types.BattleActionInstance, len(actions))}
	copy(q.actions, actions)
	return q
}

// PopNext removes and returns the front action. It returns false while an
// action is current or when the queue is exhausted.
func (q *MoveQueue) PopNext() (types.BattleActionInstance, bool) {
	if q.current != nil || len(q.actions) == 0 {
		return types.BattleActionInstance{}, false
	}
	next := q.actions[0]
	q.actions = q.actions[1:]
	return next, true
}

// PushFront inserts actions ahead of everything pending. The pushed batch
// keeps its own order: actions[0] runs first.
func (q *MoveQueue) PushFront(actions ...types.BattleActionInstance) {
	if len(actions) == 0 {
		return
	}
	merged := make([]types.BattleActionInstance, 0, len(actions)+len(q.actions))
	merged = append(merged, actions...)
	merged = append(merged, q.actions...)
	q.actions = merged
}

// SetCurrent marks an action as being presented.
func (q *MoveQueue) SetCurrent(a types.BattleActionInstance) {
	q.current = &a
}

// ClearCurrent releases the current slot.
func (q *MoveQueue) ClearCurrent() {
	q.current = nil
}

// Current returns the action being presented, or nil.
func (q *MoveQueue) Current() *types.BattleActionInstance {
	return q.current
}

// Len returns the number of pending actions, excluding current.
func (q *MoveQueue) Len() int {
	return len(q.actions)
}

// Empty reports whether nothing is pending or current.
func (q *MoveQueue) Empty() bool {
	return q.current == nil && len(q.actions) == 0
}

// Pending returns a copy of the pending actions in execution order.
func (q *MoveQueue) Pending() []types.BattleActionInstance {
	out := make([]types.BattleActionInstance, len(q.actions))
	copy(out, q.actions)
	return out
}

// HasFaint reports whether a Faint for idx is pending or current.
func (q *MoveQueue) HasFaint(idx types.ActivePokemonIndex) bool {
	if q.current != nil && q.current.Action.Kind == types.ActionFaint && q.current.Pokemon == idx {
		return true
	}
	for _, a := range q.actions {
		if a.Action.Kind == types.ActionFaint && a.Pokemon == idx {
			return true
		}
	}
	return false
}

// Take removes every pending action of kind and returns them in order.
func (q *MoveQueue) Take(kind types.ActionKind) []types.BattleActionInstance {
	var taken []types.BattleActionInstance
	kept := q.actions[:0:0]
	for _, a := range q.actions {
		if a.Action.Kind == kind {
			taken = append(taken, a)
			continue
		}
		kept = append(kept, a)
	}
	q.actions = kept
	return taken
}
