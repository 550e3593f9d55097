// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache provides a bounded memo for pure, deterministic lookups.
package cache

import "sync"

// FetchFunc computes the value for key on a miss.
type FetchFunc[K comparable, V any] func(key K) (V, error)

// FIFO is a thread-safe cache that evicts the oldest entry once full.
// Concurrent misses on one key share a single fetch. Failed fetches are not
// stored.
type FIFO[K comparable, V any] struct {
	lock     sync.RWMutex
	entries  map[K]V
	order    []K
	capacity int

	flightLock sync.Mutex
	inflight   map[K]*flight[V]
}

type flight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// NewFIFO returns a cache holding at most capacity entries. A capacity
// below one is treated as one.
func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	capacity = max(capacity, 1)
	return &FIFO[K, V]{
		entries:  make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
		capacity: capacity,
		inflight: make(map[K]*flight[V]),
	}
}

// Get returns the cached value for key, calling fetch on a miss.
func (c *FIFO[K, V]) Get(key K, fetch FetchFunc[K, V]) (V, error) {
	c.lock.RLock()
	val, ok := c.entries[key]
	c.lock.RUnlock()
	if ok {
		return val, nil
	}

	c.flightLock.Lock()
	if f, ok := c.inflight[key]; ok {
		c.flightLock.Unlock()
		<-f.done
		return f.val, f.err
	}
	f := &flight[V]{done: make(chan struct{})}
	c.inflight[key] = f
	c.flightLock.Unlock()

	f.val, f.err = fetch(key)
	if f.err == nil {
		c.lock.Lock()
		c.put(key, f.val)
		c.lock.Unlock()
	}

	c.flightLock.Lock()
	delete(c.inflight, key)
	c.flightLock.Unlock()
	close(f.done)

	return f.val, f.err
}

// put stores val. The caller holds the write lock.
func (c *FIFO[K, V]) put(key K, val V) {
	if _, ok := c.entries[key]; ok {
		c.entries[key] = val
		return
	}
	if len(c.order) >= c.capacity {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[key] = val
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *FIFO[K, V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.entries)
}
