package registry

import "sync/atomic"

// atomicSnapshot is a lock-free holder of the namespace's current
// Snapshot pointer. Readers call load without ever taking Namespace.mu.
type atomicSnapshot struct {
	ptr atomic.Pointer[Snapshot]
}

func (a *atomicSnapshot) store(s *Snapshot) { a.ptr.Store(s) }

func (a *atomicSnapshot) load() *Snapshot {
	s := a.ptr.Load()
	if s == nil {
		return EmptySnapshot()
	}
	return s
}
