package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"

	"github.com/rshade/zerodesign/internal/footprint"
)

// CardStoreSchema is the schema version written to the card file. Files
// with the same major version are readable.
const CardStoreSchema = "1.1.0"

// ErrCardStoreCorrupted indicates the card file exists but cannot be used.
// Callers should abort rather than overwrite it.
const ErrCardStoreCorrupted = constError("style card file corrupted")

// ErrCardNotFound is returned for unknown card IDs or names.
const ErrCardNotFound = constError("style card not found")

// StyleCard is a saved garment design with its last computed results.
type StyleCard struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Category    string                     `json:"category,omitempty"`
	Fibers      []footprint.FiberComponent `json:"fibers"`
	Processes   footprint.ProcessConfig    `json:"processes"`
	WeightGrams float64                    `json:"weight_grams"`
	CO2         float64                    `json:"co2"`
	Score       int                        `json:"score"`
	Notes       string                     `json:"notes,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// Garment returns the calculation inputs stored on the card.
func (c *StyleCard) Garment() footprint.Garment {
	return footprint.Garment{
		Name:        c.Name,
		Category:    c.Category,
		Fibers:      c.Fibers,
		Processes:   c.Processes,
		WeightGrams: c.WeightGrams,
	}
}

type cardStoreData struct {
	Schema string                `json:"schema"`
	Cards  map[string]*StyleCard `json:"cards"`
}

// StyleCardStore keeps style cards in a JSON file guarded by a lockfile.
type StyleCardStore struct {
	mu       sync.RWMutex
	filePath string
	cards    map[string]*StyleCard
	now      func() time.Time
}

// NewStyleCardStore returns a store backed by filePath, defaulting to
// cards.json in the config directory.
func NewStyleCardStore(filePath string) (*StyleCardStore, error) {
	if filePath == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		filePath = filepath.Join(dir, cardsFileName)
	}
	return &StyleCardStore{
		filePath: filePath,
		cards:    make(map[string]*StyleCard),
		now:      time.Now,
	}, nil
}

// FilePath returns the backing file.
func (s *StyleCardStore) FilePath() string { return s.filePath }

// Load reads the card file. A missing file yields an empty store.
func (s *StyleCardStore) Load() error {
	unlock, err := acquireFileLock(s.filePath + ".lock")
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.cards = make(map[string]*StyleCard)
			return nil
		}
		return fmt.Errorf("reading style card file: %w", err)
	}

	var stored cardStoreData
	if err := json.Unmarshal(data, &stored); err != nil {
		s.cards = make(map[string]*StyleCard)
		return fmt.Errorf("%w: %w", ErrCardStoreCorrupted, err)
	}
	if err := checkSchema(stored.Schema); err != nil {
		s.cards = make(map[string]*StyleCard)
		return err
	}

	s.cards = stored.Cards
	if s.cards == nil {
		s.cards = make(map[string]*StyleCard)
	}
	return nil
}

func checkSchema(schema string) error {
	got, err := semver.NewVersion(schema)
	if err != nil {
		return fmt.Errorf("%w: invalid schema %q", ErrCardStoreCorrupted, schema)
	}
	want := semver.MustParse(CardStoreSchema)
	if got.Major() != want.Major() {
		return fmt.Errorf("%w: unsupported schema %s (expected %d.x)", ErrCardStoreCorrupted, got, want.Major())
	}
	return nil
}

// Save writes all cards atomically.
func (s *StyleCardStore) Save() error {
	unlock, err := acquireFileLock(s.filePath + ".lock")
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	s.mu.RLock()
	data, err := json.MarshalIndent(cardStoreData{Schema: CardStoreSchema, Cards: s.cards}, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshaling style cards: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o750); err != nil {
		return fmt.Errorf("creating style card directory: %w", err)
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing style card temp file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming style card temp file: %w", err)
	}
	return nil
}

// Put adds or replaces a card and returns the stored copy. A card without
// an ID gets a new ULID; CreatedAt is kept from an existing card.
func (s *StyleCardStore) Put(card *StyleCard) (*StyleCard, error) {
	if card == nil {
		return nil, errors.New("style card cannot be nil")
	}
	if strings.TrimSpace(card.Name) == "" {
		return nil, errors.New("style card name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := copyStyleCard(card)
	now := s.now().UTC()
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	if prev, ok := s.cards[c.ID]; ok {
		c.CreatedAt = prev.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	s.cards[c.ID] = c
	return copyStyleCard(c), nil
}

// Get finds a card by ID, or by case-insensitive name when no ID matches.
func (s *StyleCardStore) Get(idOrName string) (*StyleCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.cards[idOrName]; ok {
		return copyStyleCard(c), nil
	}
	for _, c := range s.sortedLocked() {
		if strings.EqualFold(c.Name, idOrName) {
			return copyStyleCard(c), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCardNotFound, idOrName)
}

// Delete removes a card by ID or name.
func (s *StyleCardStore) Delete(idOrName string) error {
	c, err := s.Get(idOrName)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, c.ID)
	return nil
}

// List returns copies of all cards, oldest first.
func (s *StyleCardStore) List() []*StyleCard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.sortedLocked()
	out := make([]*StyleCard, len(sorted))
	for i, c := range sorted {
		out[i] = copyStyleCard(c)
	}
	return out
}

// Count returns the number of cards.
func (s *StyleCardStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

func (s *StyleCardStore) sortedLocked() []*StyleCard {
	out := make([]*StyleCard, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyStyleCard(c *StyleCard) *StyleCard {
	out := *c
	out.Fibers = append([]footprint.FiberComponent(nil), c.Fibers...)
	if c.Processes.Dyeing != nil {
		d := *c.Processes.Dyeing
		out.Processes.Dyeing = &d
	}
	if c.Processes.Finishing != nil {
		f := *c.Processes.Finishing
		out.Processes.Finishing = &f
	}
	return &out
}

// acquireFileLock takes a cross-process advisory lockfile and returns its
// release function. Locks older than staleLockAge whose owner is gone are
// removed.
func acquireFileLock(lockPath string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	const (
		maxRetries   = 10
		retryDelay   = 100 * time.Millisecond
		staleLockAge = 30 * time.Second
	)

	for range maxRetries {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if removeStaleLock(lockPath, staleLockAge) {
			continue
		}
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("could not acquire lock on %s after retries", lockPath)
}

func removeStaleLock(lockPath string, age time.Duration) bool {
	info, err := os.Stat(lockPath)
	if err != nil || time.Since(info.ModTime()) <= age {
		return false
	}
	if lockOwnerAlive(lockPath) {
		return false
	}
	_ = os.Remove(lockPath)
	return true
}

func lockOwnerAlive(lockPath string) bool {
	data, err := os.ReadFile(lockPath)
	if err != nil || len(data) == 0 {
		return false
	}
	var pid int
	if _, scanErr := fmt.Sscanf(string(data), "%d", &pid); scanErr != nil || pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes for existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}
