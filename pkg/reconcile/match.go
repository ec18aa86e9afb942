package reconcile

import (
	"context"

	"github.com/notewell/curator/pkg/tasks"
)

// MatchKind classifies a key lookup against the target store.
type MatchKind int

const (
	// NotFound means no task under the root carries the key.
	NotFound MatchKind = iota
	// Found means exactly one task carries the key.
	Found
	// Ambiguous means more than one task carries the key.
	Ambiguous
)

// Match is the tagged result of resolving a ticket key against the store.
// The reconciler branches on Kind; the resolver itself takes no decision.
type Match struct {
	Kind  MatchKind
	Tasks []*tasks.Task
}

// Task returns the single matched task, or nil when Kind is not Found.
func (m Match) Task() *tasks.Task {
	if m.Kind != Found {
		return nil
	}
	return m.Tasks[0]
}

// Resolve queries the store for non-done tasks under the root carrying the
// key and classifies the raw match count.
func Resolve(ctx context.Context, store Store, key string) (Match, error) {
	matched, err := store.FindTasks(ctx, key)
	if err != nil {
		return Match{}, err
	}

	m := Match{Tasks: matched}
	switch len(matched) {
	case 0:
		m.Kind = NotFound
	case 1:
		m.Kind = Found
	default:
		m.Kind = Ambiguous
	}
	return m, nil
}
