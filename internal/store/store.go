// Package store persists each player's best score.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quasilyte/gdata"
)

// ErrUnavailable wraps every failure of the underlying storage.
var ErrUnavailable = errors.New("best score storage unavailable")

// LocalPlayer is the key used when there is no player name.
const LocalPlayer = "local"

// Items is the key/value layer scores are kept in. *gdata.Manager
// implements it; LoadItem returns nil data for a missing key.
type Items interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

type record struct {
	Best      int       `json:"best"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Scores hands out per-player best-score stores over one Items backend.
// It is safe for concurrent use by several sessions.
type Scores struct {
	mu    sync.Mutex
	items Items
	now   func() time.Time
}

// New wraps items.
func New(items Items) *Scores {
	return &Scores{items: items, now: time.Now}
}

// Open creates Scores over the named backend: "gdata" keeps scores in the
// user's data directory under appName, "memory" forgets them on exit.
func Open(backend, appName string) (*Scores, error) {
	switch backend {
	case "memory":
		return New(NewMemory()), nil
	case "gdata":
		m, err := gdata.Open(gdata.Config{AppName: appName})
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, appName, err)
		}
		return New(m), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// For returns the store for one player.
func (s *Scores) For(player string) *Best {
	return &Best{scores: s, key: Key(player)}
}

// Key maps a player name to a storage key that is safe as a file name.
func Key(player string) string {
	if player == "" {
		player = LocalPlayer
	}
	var b strings.Builder
	b.WriteString("best_")
	for i, r := range player {
		if i >= 32 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (s *Scores) read(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(key)
}

func (s *Scores) readLocked(key string) (int, error) {
	data, err := s.items.LoadItem(key)
	if err != nil {
		return 0, fmt.Errorf("%w: load %s: %w", ErrUnavailable, key, err)
	}
	if len(data) == 0 {
		return 0, nil
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("decode %s: %w", key, err)
	}
	return max(0, rec.Best), nil
}

// write stores best unless a higher score is already recorded, which happens
// when the same player finishes sessions on two connections.
func (s *Scores) write(key string, best int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An unreadable record is overwritten.
	if cur, err := s.readLocked(key); err == nil && cur >= best {
		return nil
	}

	data, err := json.Marshal(record{Best: max(0, best), UpdatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.items.SaveItem(key, data); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

// Best is one player's best-score store.
type Best struct {
	scores *Scores
	key    string
}

// Read returns the stored best, 0 if none was recorded.
func (b *Best) Read() (int, error) {
	return b.scores.read(b.key)
}

// Write records best if it beats the stored value.
func (b *Best) Write(best int) error {
	return b.scores.write(b.key, best)
}

// Memory is an in-process Items backend.
type Memory struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemory creates an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) LoadItem(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) SaveItem(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), data...)
	return nil
}
