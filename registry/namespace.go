package registry

import (
	"errors"
	"sync"
)

// DefaultHistoryDepth bounds the rollback ring buffer. 16 is an
// implementation-chosen constant (spec §3 leaves the exact depth to the
// implementation); it is enough to recover from a short burst of bad
// pushes without holding an unbounded amount of history in memory.
const DefaultHistoryDepth = 16

// ErrNoHistory is returned by Rollback when asked to go back further
// than the retained history.
var ErrNoHistory = errors.New("registry: no snapshot that far back in history")

// Namespace is an atomically-swappable, single-current-Snapshot registry
// with a bounded rollback history. Reads never block on writes and never
// block on each other (spec §5 "lock-free reads"); Load, ApplyPatch, and
// Rollback are each linearizable with respect to one another (spec §4.1,
// §5 "linearizable writes") — a concurrent Current() call observes
// either the pre- or post-install snapshot in full, never a partial one.
//
// The zero Namespace is not usable; construct one with NewNamespace.
type Namespace struct {
	mu      sync.Mutex // serializes writers only; never held during a read
	current atomicSnapshot
	history []*Snapshot // bounded ring, most recent last
	depth   int

	subMu sync.Mutex
	subs  map[subCh]struct{}
}

// NewNamespace returns a Namespace holding an empty Snapshot, with the
// default rollback history depth.
func NewNamespace() *Namespace {
	return NewNamespaceWithHistory(DefaultHistoryDepth)
}

// NewNamespaceWithHistory returns a Namespace with a caller-chosen
// rollback history depth. depth <= 0 disables rollback entirely (every
// Rollback call fails with ErrNoHistory).
func NewNamespaceWithHistory(depth int) *Namespace {
	n := &Namespace{depth: depth}
	n.current.store(EmptySnapshot())
	return n
}

// Current returns the namespace's presently-installed Snapshot. It never
// blocks and never returns nil.
func (n *Namespace) Current() *Snapshot {
	return n.current.load()
}

// Get looks up key in the currently-installed snapshot.
func (n *Namespace) Get(key string) (*Definition, bool) {
	return n.current.load().Get(key)
}

// Load installs snapshot as current, pushing the previous current onto
// the rollback history. Load is a full replacement, unlike ApplyPatch's
// incremental merge.
func (n *Namespace) Load(snapshot *Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushHistoryLocked(n.current.load())
	n.current.store(snapshot)
	n.publish(snapshot)
}

// ApplyPatch installs Current().With(patch) as the new current snapshot,
// pushing the pre-patch snapshot onto history. It never fails: Patch
// application is total over any Patch value (spec §4.4).
func (n *Namespace) ApplyPatch(patch Patch) {
	n.mu.Lock()
	defer n.mu.Unlock()
	prev := n.current.load()
	n.pushHistoryLocked(prev)
	next := prev.With(patch)
	n.current.store(next)
	n.publish(next)
}

// Rollback installs the snapshot that was current n steps ago (n=1 means
// "the previous snapshot") as the new current snapshot. Rollback is
// itself a linearizable install: it is recorded in history exactly like
// Load or ApplyPatch, so a second Rollback(1) right after a first one
// reinstalls the snapshot the first rollback replaced.
func (n *Namespace) Rollback(steps int) error {
	if steps <= 0 {
		return errors.New("registry: rollback steps must be positive")
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if steps > len(n.history) {
		return ErrNoHistory
	}
	target := n.history[len(n.history)-steps]

	prev := n.current.load()
	n.pushHistoryLocked(prev)
	n.current.store(target)
	n.publish(target)
	return nil
}

// HistoryLen reports how many snapshots are currently retained for
// rollback.
func (n *Namespace) HistoryLen() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.history)
}

func (n *Namespace) pushHistoryLocked(snapshot *Snapshot) {
	if n.depth <= 0 {
		return
	}
	n.history = append(n.history, snapshot)
	if len(n.history) > n.depth {
		n.history = n.history[len(n.history)-n.depth:]
	}
}
