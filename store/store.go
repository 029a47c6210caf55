// Package store keeps the loading machines of mounted and recently visited screens.
//
// Every slice is addressed by a stable Key, so a screen mounted twice picks up the same data.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Key addresses a store slice, usually a section route or a resource id.
type Key string

// Slice is a diagnostic snapshot of one store slice.
type Slice struct {
	Key       Key
	State     loading.State
	Len       int
	Err       error
	UpdatedAt time.Time
}

// Store holds loading machines by key.
type Store struct {
	mu     sync.RWMutex
	slices map[Key]loading.Tracker
}

// New returns an empty store.
func New() *Store {
	return &Store{slices: make(map[Key]loading.Tracker)}
}

// Attach registers tracker under key. A tracker previously attached under the same key is disposed.
func (s *Store) Attach(key Key, tracker loading.Tracker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.slices[key]; ok && prev != tracker {
		prev.Dispose()
	}
	s.slices[key] = tracker
	log.Debugf("store: attached %s", key)
}

// Detach disposes and forgets the tracker under key.
func (s *Store) Detach(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tracker, ok := s.slices[key]; ok {
		tracker.Dispose()
		delete(s.slices, key)
		log.Debugf("store: detached %s", key)
	}
}

// Get returns the tracker under key.
func (s *Store) Get(key Key) mo.Option[loading.Tracker] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracker, ok := s.slices[key]
	if !ok {
		return mo.None[loading.Tracker]()
	}
	return mo.Some(tracker)
}

// Keys returns the attached keys in lexical order.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := lo.Keys(s.slices)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// States snapshots every slice, ordered by key.
func (s *Store) States() []Slice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slices := lo.MapToSlice(s.slices, func(key Key, t loading.Tracker) Slice {
		return Slice{
			Key:       key,
			State:     t.State(),
			Len:       t.Len(),
			Err:       t.Err(),
			UpdatedAt: t.UpdatedAt(),
		}
	})
	sort.Slice(slices, func(i, j int) bool { return slices[i].Key < slices[j].Key })
	return slices
}

// Clear disposes every slice.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, tracker := range s.slices {
		tracker.Dispose()
		delete(s.slices, key)
	}
}

// Select returns the machine of element type T under key.
// It reports false when nothing is attached there or the attached machine holds another type.
func Select[T any](s *Store, key Key) (*loading.Machine[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.slices[key].(*loading.Machine[T])
	return m, ok
}

// Ensure returns the machine under key, creating and attaching it with create when missing.
// A machine of a different element type under key is replaced.
func Ensure[T any](s *Store, key Key, create func() *loading.Machine[T]) *loading.Machine[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.slices[key].(*loading.Machine[T]); ok {
		return m
	}

	if prev, ok := s.slices[key]; ok {
		prev.Dispose()
	}

	m := create()
	s.slices[key] = m
	log.Debugf("store: created %s", key)
	return m
}
