// Package refdata owns the live reference data behind the emission engine:
// the fiber emission-factor table, the process dictionary used by
// smart-fill, and the autocomplete name lists.
//
// The store starts with the built-in fiber table and is filled from
// external tabular sources, usually once at startup. Loads never fail from
// the caller's point of view: a source that cannot be fetched or parsed is
// logged and treated as having no rows.
//
// Readers always see a complete snapshot. Every load builds its new state
// off to the side and swaps it in under the lock, so the last load to
// finish wins.
package refdata

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/logging"
)

// ProcessEntry is one process or accessory in the dictionary.
type ProcessEntry struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Avg      float64 `json:"avg"`
}

// Label is the autocomplete text for the entry: "category — name (unit)"
// with missing parts left out.
func (e ProcessEntry) Label() string {
	var b strings.Builder
	if e.Category != "" {
		b.WriteString(e.Category)
		b.WriteString(" — ")
	}
	b.WriteString(e.Name)
	if e.Unit != "" {
		fmt.Fprintf(&b, " (%s)", e.Unit)
	}
	return b.String()
}

// ChangeKind says which part of the store a load replaced.
type ChangeKind int

// Change kinds.
const (
	ChangeFibers ChangeKind = iota
	ChangeProcesses
	ChangeModels
)

// Store is the process-wide reference data. The zero value is not usable;
// call NewStore.
type Store struct {
	fetcher Fetcher

	mu          sync.RWMutex
	factors     map[string]float64
	fabricNames []string
	processes   []ProcessEntry
	models      []string

	listenersMu sync.Mutex
	listeners   []func(ChangeKind)
}

// Option configures a Store.
type Option func(*Store)

// WithFetcher sets how sources are retrieved. The default reads local files
// and HTTP(S) URLs without caching.
func WithFetcher(f Fetcher) Option {
	return func(s *Store) { s.fetcher = f }
}

// NewStore returns a store seeded with the built-in fiber table and an
// empty process dictionary.
func NewStore(opts ...Option) *Store {
	s := &Store{
		factors: footprint.DefaultFactorTable(),
		fetcher: NewSourceFetcher(0, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FiberFactor implements footprint.FactorLookup.
func (s *Store) FiberFactor(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.factors[name]
	return f, ok
}

// Factors returns a copy of the current fiber table.
func (s *Store) Factors() footprint.FactorTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(footprint.FactorTable, len(s.factors))
	for k, v := range s.factors {
		out[k] = v
	}
	return out
}

// FabricNames returns the names seen in the last successful fiber load.
func (s *Store) FabricNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.fabricNames...)
}

// Processes returns a copy of the process dictionary.
func (s *Store) Processes() []ProcessEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ProcessEntry(nil), s.processes...)
}

// Models returns the model names for autocomplete.
func (s *Store) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.models...)
}

// Lookup returns the first dictionary entry whose name occurs in input.
// Matching is case-sensitive; dictionary order decides between overlapping
// names.
func (s *Store) Lookup(input string) (ProcessEntry, bool) {
	if input == "" {
		return ProcessEntry{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.processes {
		if strings.Contains(input, e.Name) {
			return e, true
		}
	}
	return ProcessEntry{}, false
}

// OnChange registers fn to run after each successful replacement. fn runs
// on the loading goroutine, outside the store lock.
func (s *Store) OnChange(fn func(ChangeKind)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(kind ChangeKind) {
	s.listenersMu.Lock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(kind)
	}
}

// LoadFiberFactors merges positive factors from source into the fiber
// table and returns how many were applied. Existing entries are
// overwritten, never removed. A source that cannot be read leaves the
// store untouched.
func (s *Store) LoadFiberFactors(ctx context.Context, source string) int {
	log := logging.FromContext(ctx)

	rows, ok := s.readRows(ctx, "load_fiber_factors", source)
	if !ok {
		return 0
	}
	parsed := ParseFiberRows(rows)

	s.mu.Lock()
	next := make(map[string]float64, len(s.factors)+len(parsed.Factors))
	for k, v := range s.factors {
		next[k] = v
	}
	for k, v := range parsed.Factors {
		next[k] = v
	}
	s.factors = next
	s.fabricNames = parsed.Names
	s.mu.Unlock()

	log.Debug().
		Str("component", "refdata").
		Str("operation", "load_fiber_factors").
		Str("source", source).
		Int("applied", len(parsed.Factors)).
		Int("skipped", parsed.Skipped).
		Int("names", len(parsed.Names)).
		Msg("fiber factors loaded")

	s.notify(ChangeFibers)
	return len(parsed.Factors)
}

// LoadProcessDictionary replaces the dictionary with the entries read from
// source and returns them. A source that cannot be read replaces the
// dictionary with an empty one.
func (s *Store) LoadProcessDictionary(ctx context.Context, source string) []ProcessEntry {
	log := logging.FromContext(ctx)

	rows, _ := s.readRows(ctx, "load_process_dictionary", source)
	entries := ParseProcessRows(rows)

	s.mu.Lock()
	s.processes = entries
	s.mu.Unlock()

	log.Debug().
		Str("component", "refdata").
		Str("operation", "load_process_dictionary").
		Str("source", source).
		Int("entries", len(entries)).
		Msg("process dictionary replaced")

	s.notify(ChangeProcesses)
	return append([]ProcessEntry(nil), entries...)
}

// LoadModels replaces the model name list when source yields at least one
// name; otherwise the previous list is kept.
func (s *Store) LoadModels(ctx context.Context, source string) []string {
	rows, ok := s.readRows(ctx, "load_models", source)
	if !ok {
		return s.Models()
	}
	names := ParseModelRows(rows)
	if len(names) == 0 {
		return s.Models()
	}

	s.mu.Lock()
	s.models = names
	s.mu.Unlock()

	s.notify(ChangeModels)
	return append([]string(nil), names...)
}

// readRows fetches and parses source. ok is false when nothing usable came
// back; the failure has already been logged.
func (s *Store) readRows(ctx context.Context, operation, source string) ([]Row, bool) {
	log := logging.FromContext(ctx)

	data, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		log.Warn().
			Str("component", "refdata").
			Str("operation", operation).
			Str("source", source).
			Err(err).
			Msg("reference source load failed")
		return nil, false
	}

	rows, err := ParseRows(data)
	if err != nil {
		log.Warn().
			Str("component", "refdata").
			Str("operation", operation).
			Str("source", source).
			Err(err).
			Msg("reference source is not valid tabular text")
		return nil, false
	}
	return rows, true
}
