package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"boolnet/internal/model"
)

var (
	networksBucket     = []byte("networks")
	trajectoriesBucket = []byte("trajectories")
)

// BoltStore keeps each record as a JSON payload keyed by id in a bbolt file.
type BoltStore struct {
	path string

	mu sync.RWMutex
	db *bolt.DB
}

func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path}
}

func (s *BoltStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("bolt path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := bolt.Open(s.path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{networksBucket, trajectoriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *BoltStore) SaveNetwork(_ context.Context, record model.NetworkRecord) error {
	if record.ID == "" {
		return ErrMissingID
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := EncodeNetwork(record)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(networksBucket).Put([]byte(record.ID), payload)
	})
}

func (s *BoltStore) GetNetwork(_ context.Context, id string) (model.NetworkRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.NetworkRecord{}, false, err
	}

	var (
		record model.NetworkRecord
		found  bool
	)
	err = db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(networksBucket).Get([]byte(id))
		if payload == nil {
			return nil
		}
		decoded, err := DecodeNetwork(payload)
		if err != nil {
			return fmt.Errorf("decode network %s: %w", id, err)
		}
		record, found = decoded, true
		return nil
	})
	if err != nil {
		return model.NetworkRecord{}, false, err
	}
	return record, found, nil
}

func (s *BoltStore) ListNetworks(_ context.Context) ([]model.NetworkRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var records []model.NetworkRecord
	err = db.View(func(tx *bolt.Tx) error {
		// Keys iterate in byte order, which is id order.
		return tx.Bucket(networksBucket).ForEach(func(id, payload []byte) error {
			record, err := DecodeNetwork(payload)
			if err != nil {
				return fmt.Errorf("decode network %s: %w", id, err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *BoltStore) DeleteNetwork(_ context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(networksBucket).Delete([]byte(id)); err != nil {
			return err
		}

		bucket := tx.Bucket(trajectoriesBucket)
		var stale [][]byte
		err := bucket.ForEach(func(key, payload []byte) error {
			record, err := DecodeTrajectory(payload)
			if err != nil {
				return fmt.Errorf("decode trajectory %s: %w", key, err)
			}
			if record.NetworkID == id {
				stale = append(stale, append([]byte(nil), key...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, key := range stale {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) SaveTrajectory(_ context.Context, record model.TrajectoryRecord) error {
	if record.ID == "" {
		return ErrMissingID
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := EncodeTrajectory(record)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(trajectoriesBucket).Put([]byte(record.ID), payload)
	})
}

func (s *BoltStore) GetTrajectory(_ context.Context, id string) (model.TrajectoryRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.TrajectoryRecord{}, false, err
	}

	var (
		record model.TrajectoryRecord
		found  bool
	)
	err = db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(trajectoriesBucket).Get([]byte(id))
		if payload == nil {
			return nil
		}
		decoded, err := DecodeTrajectory(payload)
		if err != nil {
			return fmt.Errorf("decode trajectory %s: %w", id, err)
		}
		record, found = decoded, true
		return nil
	})
	if err != nil {
		return model.TrajectoryRecord{}, false, err
	}
	return record, found, nil
}

func (s *BoltStore) ListTrajectories(_ context.Context, networkID string) ([]model.TrajectoryRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var records []model.TrajectoryRecord
	err = db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(trajectoriesBucket).ForEach(func(id, payload []byte) error {
			record, err := DecodeTrajectory(payload)
			if err != nil {
				return fmt.Errorf("decode trajectory %s: %w", id, err)
			}
			if record.NetworkID == networkID {
				records = append(records, record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortTrajectories(records)
	return records, nil
}

func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BoltStore) getDB() (*bolt.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}
