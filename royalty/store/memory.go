// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/royalty-engine/royalty"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	artists map[royalty.ArtistID]royalty.Artist
}

func NewMemory() *Memory {
	return &Memory{artists: make(map[royalty.ArtistID]royalty.Artist)}
}

func (m *Memory) FindActive(_ context.Context, id royalty.ArtistID) (*royalty.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.artists[id]
	if !ok || a.Retired {
		return nil, royalty.ErrArtistNotFound
	}
	cp := a
	return &cp, nil
}

func (m *Memory) ListActive(_ context.Context) ([]royalty.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []royalty.Artist
	for _, a := range m.artists {
		if !a.Retired {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) Insert(_ context.Context, a royalty.Artist) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTakenLocked(a.Name, a.ID) {
		return royalty.ErrNameTaken
	}
	m.artists[a.ID] = a
	return nil
}

func (m *Memory) UpdateFields(_ context.Context, id royalty.ArtistID, mut royalty.Mutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.artists[id]
	if !ok || a.Retired {
		return royalty.ErrArtistNotFound
	}

	if mut.Name != nil {
		if m.nameTakenLocked(*mut.Name, id) {
			return royalty.ErrNameTaken
		}
		a.Name = *mut.Name
	}
	if mut.Rate != nil {
		a.Rate = *mut.Rate
	}
	if mut.PaidStreams != nil {
		a.PaidStreams = *mut.PaidStreams
	}
	if mut.LastPaidAt != nil {
		t := *mut.LastPaidAt
		a.LastPaidAt = &t
	}
	if mut.PaidBy != nil {
		u := *mut.PaidBy
		a.PaidBy = &u
	}
	if mut.Retired != nil {
		a.Retired = *mut.Retired
	}

	m.artists[id] = a
	return nil
}

func (m *Memory) AddStreams(_ context.Context, id royalty.ArtistID, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.artists[id]
	if !ok || a.Retired {
		return royalty.ErrArtistNotFound
	}
	a.Streams += n
	m.artists[id] = a
	return nil
}

// nameTakenLocked checks uniqueness among non-retired artists only.
func (m *Memory) nameTakenLocked(name string, exclude royalty.ArtistID) bool {
	for id, a := range m.artists {
		if id != exclude && !a.Retired && a.Name == name {
			return true
		}
	}
	return false
}
