// Package smartfill fills in process-row fields from the process dictionary
// as the user types a process name.
package smartfill

import (
	"slices"
	"strconv"
	"sync"
)

// Row types and unit labels written by smart-fill.
const (
	TypeProcess   = "process"
	TypeAccessory = "accessory"

	UnitPerKg    = "kgCO2e/kg"
	UnitPerPiece = "kgCO2e/adet"
)

// Row is one process or accessory line on a garment.
type Row struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Unit     string  `json:"unit"`
	Factor   float64 `json:"factor"`
	Quantity float64 `json:"quantity"`
}

// CO2 is the row's contribution in kg CO2e. Quantity is kilograms for
// per-kg rows and pieces otherwise; an unset quantity counts as one.
func (r Row) CO2() float64 {
	q := r.Quantity
	if q <= 0 {
		q = 1
	}
	if r.Factor <= 0 {
		return 0
	}
	return r.Factor * q
}

// ProcessRowsCO2 sums the contributions of rows.
func ProcessRowsCO2(rows []Row) float64 {
	var total float64
	for _, r := range rows {
		total += r.CO2()
	}
	return total
}

// RowList is an ordered, concurrency-safe list of rows. Callers can watch
// for rows being added and for name edits on a given row.
type RowList struct {
	mu        sync.Mutex
	rows      []Row
	nextID    int
	observers []func(id string)
	nameHooks map[string][]func(id, name string)
}

// NewRowList returns an empty list.
func NewRowList() *RowList {
	return &RowList{nameHooks: make(map[string][]func(id, name string))}
}

// Add appends r under a fresh ID, notifies observers and returns the ID.
func (l *RowList) Add(r Row) string {
	l.mu.Lock()
	l.nextID++
	r.ID = "row-" + strconv.Itoa(l.nextID)
	l.rows = append(l.rows, r)
	observers := slices.Clone(l.observers)
	l.mu.Unlock()

	for _, fn := range observers {
		fn(r.ID)
	}
	return r.ID
}

// Observe registers fn to run for every row added after the call.
func (l *RowList) Observe(fn func(id string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// OnNameChange registers fn to run whenever the named row's name is set.
func (l *RowList) OnNameChange(id string, fn func(id, name string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nameHooks[id] = append(l.nameHooks[id], fn)
}

// SetName updates a row's name and runs its hooks. It reports false when
// id is unknown.
func (l *RowList) SetName(id, name string) bool {
	l.mu.Lock()
	i := l.index(id)
	if i < 0 {
		l.mu.Unlock()
		return false
	}
	l.rows[i].Name = name
	hooks := slices.Clone(l.nameHooks[id])
	l.mu.Unlock()

	for _, fn := range hooks {
		fn(id, name)
	}
	return true
}

// Update applies fn to the row with id under the list lock.
func (l *RowList) Update(id string, fn func(*Row)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return false
	}
	fn(&l.rows[i])
	return true
}

// Remove deletes the row and its hooks.
func (l *RowList) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	delete(l.nameHooks, id)
	return true
}

// Get returns a copy of the row with id.
func (l *RowList) Get(id string) (Row, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return Row{}, false
	}
	return l.rows[i], true
}

// Rows returns a snapshot in insertion order.
func (l *RowList) Rows() []Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Row(nil), l.rows...)
}

// Len reports the number of rows.
func (l *RowList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

func (l *RowList) index(id string) int {
	for i := range l.rows {
		if l.rows[i].ID == id {
			return i
		}
	}
	return -1
}
