package offer

import (
	"sync"
	"time"
)

// MemoryStore keeps offers in process memory. Entries older than ttl are
// treated as absent even before Cleanup removes them.
type MemoryStore struct {
	mu     sync.Mutex
	offers map[string]entry
	ttl    time.Duration
	now    func() time.Time
}

type entry struct {
	text      string
	offeredAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		offers: make(map[string]entry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *MemoryStore) Put(session, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers[session] = entry{text: text, offeredAt: m.now()}
	return nil
}

func (m *MemoryStore) Take(session string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.offers[session]
	if !ok {
		return "", false, nil
	}
	delete(m.offers, session)
	if m.expired(e) {
		return "", false, nil
	}
	return e.text, true, nil
}

func (m *MemoryStore) Peek(session string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.offers[session]
	if !ok || m.expired(e) {
		return "", false, nil
	}
	return e.text, true, nil
}

func (m *MemoryStore) Cleanup(maxAge time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for session, e := range m.offers {
		if now.Sub(e.offeredAt) > maxAge {
			delete(m.offers, session)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) expired(e entry) bool {
	return m.ttl > 0 && m.now().Sub(e.offeredAt) > m.ttl
}
