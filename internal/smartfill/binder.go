package smartfill

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/zerodesign/internal/refdata"
)

// Default factors used when a dictionary entry has no positive average.
const (
	FallbackProcessFactor   = 0.1
	FallbackAccessoryFactor = 0.05
)

// Dictionary resolves free text to a process dictionary entry.
// *refdata.Store satisfies it.
type Dictionary interface {
	Lookup(input string) (refdata.ProcessEntry, bool)
}

// Fill is the set of fields derived from a dictionary entry.
type Fill struct {
	Unit   string  `json:"unit"`
	Type   string  `json:"type"`
	Factor float64 `json:"factor"`
}

// Derive computes the fields smart-fill writes for entry.
func Derive(entry refdata.ProcessEntry) Fill {
	f := Fill{Unit: UnitPerPiece, Type: TypeAccessory}
	if strings.Contains(strings.ToLower(entry.Unit), "per_kg") {
		f.Unit = UnitPerKg
		f.Type = TypeProcess
	}

	switch {
	case entry.Avg > 0:
		f.Factor = entry.Avg
	case f.Type == TypeProcess:
		f.Factor = FallbackProcessFactor
	default:
		f.Factor = FallbackAccessoryFactor
	}
	return f
}

// Binder attaches smart-fill to the rows of a RowList. Each row is bound
// at most once no matter how it was attached.
type Binder struct {
	dict   Dictionary
	list   *RowList
	recalc func()
	logger zerolog.Logger

	mu       sync.Mutex
	attached map[string]bool
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithLogger sets the logger used for match events.
func WithLogger(l zerolog.Logger) BinderOption {
	return func(b *Binder) { b.logger = l }
}

// NewBinder binds dict to list. recalc runs after every name edit on an
// attached row; it may be nil.
func NewBinder(dict Dictionary, list *RowList, recalc func(), opts ...BinderOption) *Binder {
	b := &Binder{
		dict:     dict,
		list:     list,
		recalc:   recalc,
		logger:   zerolog.Nop(),
		attached: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AppendRow adds r to the list and attaches to it.
func (b *Binder) AppendRow(r Row) string {
	id := b.list.Add(r)
	b.Attach(id)
	return id
}

// Watch attaches to every row added to the list from now on, whoever adds
// it.
func (b *Binder) Watch() {
	b.list.Observe(func(id string) { b.Attach(id) })
}

// Attach binds smart-fill to the row with id. It reports whether a new
// binding was made.
func (b *Binder) Attach(id string) bool {
	b.mu.Lock()
	if b.attached[id] {
		b.mu.Unlock()
		return false
	}
	b.attached[id] = true
	b.mu.Unlock()

	b.list.OnNameChange(id, b.onNameChange)
	return true
}

// Attached reports whether id has a binding.
func (b *Binder) Attached(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attached[id]
}

// Lookup returns the fill for name without touching any row.
func (b *Binder) Lookup(name string) (Fill, refdata.ProcessEntry, bool) {
	if b.dict == nil {
		return Fill{}, refdata.ProcessEntry{}, false
	}
	entry, ok := b.dict.Lookup(name)
	if !ok {
		return Fill{}, refdata.ProcessEntry{}, false
	}
	return Derive(entry), entry, true
}

func (b *Binder) onNameChange(id, name string) {
	if fill, entry, ok := b.Lookup(name); ok {
		b.list.Update(id, func(r *Row) {
			r.Unit = fill.Unit
			r.Type = fill.Type
			r.Factor = fill.Factor
		})
		b.logger.Debug().
			Str("component", "smartfill").
			Str("operation", "fill").
			Str("row", id).
			Str("entry", entry.Name).
			Float64("factor", fill.Factor).
			Msg("process row filled from dictionary")
	}
	if b.recalc != nil {
		b.recalc()
	}
}
