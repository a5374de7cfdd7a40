package storage

import (
	"context"
	"maps"
	"slices"
	"sync"

	"boolnet/internal/model"
)

type MemoryStore struct {
	mu           sync.RWMutex
	initialized  bool
	networks     map[string]model.NetworkRecord
	trajectories map[string]model.TrajectoryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.networks = make(map[string]model.NetworkRecord)
	s.trajectories = make(map[string]model.TrajectoryRecord)
	return nil
}

func (s *MemoryStore) SaveNetwork(_ context.Context, record model.NetworkRecord) error {
	if record.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.networks[record.ID] = record
	return nil
}

func (s *MemoryStore) GetNetwork(_ context.Context, id string) (model.NetworkRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.NetworkRecord{}, false, ErrNotInitialized
	}
	record, ok := s.networks[id]
	return record, ok, nil
}

func (s *MemoryStore) ListNetworks(_ context.Context) ([]model.NetworkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	records := slices.Collect(maps.Values(s.networks))
	sortNetworks(records)
	return records, nil
}

func (s *MemoryStore) DeleteNetwork(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	delete(s.networks, id)
	maps.DeleteFunc(s.trajectories, func(_ string, record model.TrajectoryRecord) bool {
		return record.NetworkID == id
	})
	return nil
}

func (s *MemoryStore) SaveTrajectory(_ context.Context, record model.TrajectoryRecord) error {
	if record.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.trajectories[record.ID] = record
	return nil
}

func (s *MemoryStore) GetTrajectory(_ context.Context, id string) (model.TrajectoryRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.TrajectoryRecord{}, false, ErrNotInitialized
	}
	record, ok := s.trajectories[id]
	return record, ok, nil
}

func (s *MemoryStore) ListTrajectories(_ context.Context, networkID string) ([]model.TrajectoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	var records []model.TrajectoryRecord
	for _, record := range s.trajectories {
		if record.NetworkID == networkID {
			records = append(records, record)
		}
	}
	sortTrajectories(records)
	return records, nil
}
