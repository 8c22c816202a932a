package offer

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var offersBucket = []byte("offers")

type record struct {
	Text      string    `json:"text"`
	OfferedAt time.Time `json:"offered_at"`
}

// BoltStore persists offers in a bbolt file so they survive a restart.
type BoltStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

func NewBoltStore(path string, ttl time.Duration) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(offersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating offers bucket: %w", err)
	}

	return &BoltStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *BoltStore) Put(session, text string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(record{Text: text, OfferedAt: s.now()})
		if err != nil {
			return err
		}
		return tx.Bucket(offersBucket).Put([]byte(session), data)
	})
}

func (s *BoltStore) Take(session string) (string, bool, error) {
	var (
		text string
		ok   bool
	)
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(offersBucket)
		v := b.Get([]byte(session))
		if v == nil {
			return nil
		}
		var r record
		if err := json.Unmarshal(v, &r); err != nil {
			return err
		}
		if !s.expired(r) {
			text, ok = r.Text, true
		}
		return b.Delete([]byte(session))
	})
	if err != nil {
		return "", false, fmt.Errorf("taking offer: %w", err)
	}
	return text, ok, nil
}

func (s *BoltStore) Peek(session string) (string, bool, error) {
	var r record
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(offersBucket).Get([]byte(session))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return "", false, fmt.Errorf("reading offer: %w", err)
	}
	if r.OfferedAt.IsZero() || s.expired(r) {
		return "", false, nil
	}
	return r.Text, true, nil
}

func (s *BoltStore) Cleanup(maxAge time.Duration) (int, error) {
	now := s.now()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(offersBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var r record
			// Unreadable records are dropped along with expired ones.
			if err := json.Unmarshal(v, &r); err != nil || now.Sub(r.OfferedAt) > maxAge {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) expired(r record) bool {
	return s.ttl > 0 && s.now().Sub(r.OfferedAt) > s.ttl
}
