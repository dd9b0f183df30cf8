package persist

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	stateBucket = "state"
	stateKey    = "task-manager"
)

// BoltStorage keeps the single durable state record in a local BoltDB file,
// the process-local stand-in for browser storage.
type BoltStorage struct {
	db     *bolt.DB
	bucket []byte
	key    []byte
}

// OpenBolt initializes the BoltDB file and ensures the state bucket exists.
func OpenBolt(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStorage{
		db:     db,
		bucket: []byte(stateBucket),
		key:    []byte(stateKey),
	}, nil
}

// Read returns the stored record, or nil when none exists.
func (s *BoltStorage) Read() ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get(s.key); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// Write replaces the stored record.
func (s *BoltStorage) Write(payload []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(s.key, payload)
	})
}

// Delete removes the stored record.
func (s *BoltStorage) Delete() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(s.key)
	})
}

// Close closes the Bolt database.
func (s *BoltStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StorageStats summarizes the durable store for the health endpoint.
type StorageStats struct {
	Online  bool  `json:"online"`
	TxCount int   `json:"tx"`
	Size    int64 `json:"size"`
}

// Stats reports whether the database is open, its transaction count, and the
// file size on disk.
func (s *BoltStorage) Stats() StorageStats {
	if s == nil || s.db == nil {
		return StorageStats{}
	}
	var size int64
	if info, err := os.Stat(s.db.Path()); err == nil {
		size = info.Size()
	}
	return StorageStats{
		Online:  true,
		TxCount: s.db.Stats().TxN,
		Size:    size,
	}
}
