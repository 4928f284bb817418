package core

import (
	"slices"
	"sync"
)

// Notifier fans out state snapshots to subscribers. Callbacks run synchronously
// on the goroutine that published, after the publishing store released its lock.
//
// Every snapshot carries the version its store assigned under the store lock.
// Deliveries are serialized and a version not newer than the last delivered
// one is dropped, so subscribers never see state move backwards.
type Notifier[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)

	deliver sync.Mutex
	last    uint64
}

// Subscribe registers fn and returns a function that removes it. fn must not
// mutate the publishing store synchronously.
func (n *Notifier[T]) Subscribe(fn func(T)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(T))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Publish delivers snapshot to every current subscriber in registration order.
// It reports false when version is stale and nothing was delivered.
func (n *Notifier[T]) Publish(version uint64, snapshot T) bool {
	n.deliver.Lock()
	defer n.deliver.Unlock()
	if version <= n.last {
		return false
	}
	n.last = version

	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	fns := make([]func(T), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
	return true
}
