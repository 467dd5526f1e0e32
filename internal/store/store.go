// Package store keeps each drone's ordered telemetry samples for the
// lifetime of a session and resolves playback times to sample indices.
package store

import (
	"sync"

	"github.com/dronescope/playback/internal/model/core"
)

// Store is the per-session sample registry. Sample slices handed to
// Put are owned by the store and must not be mutated afterwards.
type Store struct {
	mu     sync.RWMutex
	tracks map[core.TrackID][]core.Sample
}

// New creates an empty sample store.
func New() *Store {
	return &Store{
		tracks: make(map[core.TrackID][]core.Sample),
	}
}

// Put registers the samples for a track, replacing any previous set.
func (s *Store) Put(id core.TrackID, samples []core.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks[id] = samples
}

// Get returns the samples for a track. The slice is shared and must
// be treated as read-only.
func (s *Store) Get(id core.TrackID) ([]core.Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	samples, ok := s.tracks[id]
	return samples, ok
}

// Delete removes a track's samples.
func (s *Store) Delete(id core.TrackID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tracks, id)
}

// Len returns the number of registered tracks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// SampleCount returns the total number of samples across all tracks.
func (s *Store) SampleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, samples := range s.tracks {
		n += len(samples)
	}
	return n
}

// Reset drops all tracks.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = make(map[core.TrackID][]core.Sample)
}
