package registry

// subCh carries the fingerprint of each snapshot a Namespace publishes.
type subCh = chan uint64

// Subscribe registers a listener for n's published snapshots: every
// successful Load or ApplyPatch sends the new snapshot's Fingerprint on
// the returned channel. Delivery is non-blocking — a slow or inattentive
// subscriber misses intermediate updates rather than stalling the
// writer holding n's lock. Call the returned cancel func to unsubscribe
// and close the channel.
func (n *Namespace) Subscribe() (<-chan uint64, func()) {
	ch := make(subCh, 1)

	n.subMu.Lock()
	if n.subs == nil {
		n.subs = make(map[subCh]struct{})
	}
	n.subs[ch] = struct{}{}
	n.subMu.Unlock()

	cancel := func() {
		n.subMu.Lock()
		if _, ok := n.subs[ch]; ok {
			delete(n.subs, ch)
			close(ch)
		}
		n.subMu.Unlock()
	}
	return ch, cancel
}

// publish notifies every current subscriber of snap's fingerprint.
func (n *Namespace) publish(snap *Snapshot) {
	n.subMu.Lock()
	defer n.subMu.Unlock()
	if len(n.subs) == 0 {
		return
	}
	fingerprint := snap.Fingerprint()
	for ch := range n.subs {
		select {
		case ch <- fingerprint:
		default:
		}
	}
}
