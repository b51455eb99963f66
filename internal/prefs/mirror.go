package prefs

import (
	"context"
	"sync"

	"platea/internal/recipe"
)

// Remote is the server half a Mirror reconciles against. Satisfied by
// thin adapters over Service.Like/Unlike or Bookmark/Unbookmark.
type Remote interface {
	Add(ctx context.Context, ref recipe.Ref, snap *Snapshot) error
	Remove(ctx context.Context, ref recipe.Ref) error
}

// Mirror is an optimistic local copy of one of a user's preference
// sets. Toggle flips membership immediately, confirms with the remote,
// and reverts the flip if the remote call fails. Toggles for the same
// ref are serialized so a slow response can never clobber a newer flip;
// toggles for different refs proceed concurrently.
type Mirror struct {
	remote Remote

	mu      sync.Mutex
	members map[recipe.Ref]struct{}
	inFlight map[recipe.Ref]*refGate
}

type refGate struct {
	mu   sync.Mutex
	uses int
}

func NewMirror(remote Remote) *Mirror {
	return &Mirror{
		remote:   remote,
		members:  make(map[recipe.Ref]struct{}),
		inFlight: make(map[recipe.Ref]*refGate),
	}
}

// Toggle flips membership for ref and reports the resulting state.
// On remote failure the local flip is reverted and the pre-toggle
// state is returned along with the error.
func (m *Mirror) Toggle(ctx context.Context, ref recipe.Ref, snap *Snapshot) (bool, error) {
	gate := m.acquire(ref)
	defer m.release(ref, gate)

	m.mu.Lock()
	_, was := m.members[ref]
	if was {
		delete(m.members, ref)
	} else {
		m.members[ref] = struct{}{}
	}
	m.mu.Unlock()

	var err error
	if was {
		err = m.remote.Remove(ctx, ref)
	} else {
		err = m.remote.Add(ctx, ref, snap)
	}
	if err != nil {
		m.mu.Lock()
		if was {
			m.members[ref] = struct{}{}
		} else {
			delete(m.members, ref)
		}
		m.mu.Unlock()
		return was, err
	}
	return !was, nil
}

func (m *Mirror) Contains(ref recipe.Ref) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.members[ref]
	return ok
}

func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.members)
}

// Replace installs the authoritative server set, discarding any stale
// optimistic state. Used at login / profile load.
func (m *Mirror) Replace(refs []recipe.Ref) {
	next := make(map[recipe.Ref]struct{}, len(refs))
	for _, r := range refs {
		next[r] = struct{}{}
	}
	m.mu.Lock()
	m.members = next
	m.mu.Unlock()
}

func (m *Mirror) acquire(ref recipe.Ref) *refGate {
	m.mu.Lock()
	g := m.inFlight[ref]
	if g == nil {
		g = &refGate{}
		m.inFlight[ref] = g
	}
	g.uses++
	m.mu.Unlock()

	g.mu.Lock()
	return g
}

func (m *Mirror) release(ref recipe.Ref, g *refGate) {
	g.mu.Unlock()
	m.mu.Lock()
	g.uses--
	if g.uses == 0 {
		delete(m.inFlight, ref)
	}
	m.mu.Unlock()
}
