// Package presence tracks which users hold at least one live connection.
// State is process-local and rebuilt from scratch as clients reconnect.
package presence

import (
	"sort"
	"sync"
)

// Registry maps a user id to the set of its connection ids. A user without
// an entry is offline.
//
// Transitions of one user are serialized by a per-user gate so that its
// online and offline callbacks run in the order the state changed. The
// callbacks run without the registry lock, so a slow broadcast for one user
// never stalls other users.
type Registry struct {
	mu    sync.Mutex
	users map[uint]map[string]struct{}
	gates map[uint]*gate
}

// gate is dropped from the registry once nobody holds or waits on it.
type gate struct {
	sync.Mutex
	refs int
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[uint]map[string]struct{}),
		gates: make(map[uint]*gate),
	}
}

func (r *Registry) lockUser(userID uint) *gate {
	r.mu.Lock()
	g, ok := r.gates[userID]
	if !ok {
		g = &gate{}
		r.gates[userID] = g
	}
	g.refs++
	r.mu.Unlock()

	g.Lock()
	return g
}

func (r *Registry) unlockUser(userID uint, g *gate) {
	g.Unlock()

	r.mu.Lock()
	g.refs--
	if g.refs == 0 {
		delete(r.gates, userID)
	}
	r.mu.Unlock()
}

// Connect adds connID to userID's connections. When this is the user's first
// connection onFirst runs with the online users as of that change, while the
// user's gate is held, so it cannot interleave with the same user's
// Disconnect. It reports whether the user came online.
func (r *Registry) Connect(userID uint, connID string, onFirst func(online []uint)) bool {
	g := r.lockUser(userID)
	defer r.unlockUser(userID, g)

	first, online := r.add(userID, connID)
	if !first {
		return false
	}
	if onFirst != nil {
		onFirst(online)
	}
	return true
}

func (r *Registry) add(userID uint, connID string) (bool, []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.users[userID]
	if !ok {
		conns = make(map[string]struct{})
		r.users[userID] = conns
	}
	if _, dup := conns[connID]; dup {
		return false, nil
	}
	conns[connID] = struct{}{}

	if len(conns) != 1 {
		return false, nil
	}
	return true, r.online()
}

// Disconnect removes connID from userID's connections. When the last
// connection goes away the user is dropped and onLast runs under the user's
// gate. It reports whether the user went offline.
func (r *Registry) Disconnect(userID uint, connID string, onLast func()) bool {
	g := r.lockUser(userID)
	defer r.unlockUser(userID, g)

	if !r.remove(userID, connID) {
		return false
	}
	if onLast != nil {
		onLast()
	}
	return true
}

func (r *Registry) remove(userID uint, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.users[userID]
	if !ok {
		return false
	}
	if _, known := conns[connID]; !known {
		return false
	}
	delete(conns, connID)

	if len(conns) != 0 {
		return false
	}
	delete(r.users, userID)
	return true
}

// Online returns the online user ids in ascending order.
func (r *Registry) Online() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.online()
}

func (r *Registry) online() []uint {
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) IsOnline(userID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[userID]
	return ok
}

// Connections returns the number of live connections per online user.
func (r *Registry) Connections() map[uint]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[uint]int, len(r.users))
	for id, conns := range r.users {
		counts[id] = len(conns)
	}
	return counts
}
