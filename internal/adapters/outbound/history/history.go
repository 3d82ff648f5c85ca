// Package history records one score entry per completed audit in a bbolt
// database, keyed by timestamp so iteration returns chronological order.
package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/allyaudit/ally/internal/domain"
)

const dbFile = ".ally/history.db"

var scoresBucket = []byte("scores")

// BoltHistory implements domain.ScoreHistory.
type BoltHistory struct{}

func New() *BoltHistory { return &BoltHistory{} }

func (h *BoltHistory) Append(projectPath string, entry domain.ScoreEntry) error {
	path := filepath.Join(projectPath, dbFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(scoresBucket)
		if err != nil {
			return err
		}
		value, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		// RFC3339 keys sort chronologically under bbolt's byte ordering.
		return b.Put([]byte(entry.Timestamp), value)
	})
}

func (h *BoltHistory) Entries(projectPath string) ([]domain.ScoreEntry, error) {
	path := filepath.Join(projectPath, dbFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var entries []domain.ScoreEntry
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(scoresBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var e domain.ScoreEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
