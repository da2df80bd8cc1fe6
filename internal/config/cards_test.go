package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/footprint"
)

func newTestCardStore(t *testing.T) *StyleCardStore {
	t.Helper()
	s, err := NewStyleCardStore(filepath.Join(t.TempDir(), "cards.json"))
	require.NoError(t, err)
	return s
}

func sampleCard(name string) *StyleCard {
	return &StyleCard{
		Name:        name,
		Category:    "Tops",
		Fibers:      []footprint.FiberComponent{{Type: footprint.FiberCotton, Percentage: 100}},
		Processes:   footprint.ProcessConfig{Dyeing: &footprint.DyeingConfig{NaturalDye: true}},
		WeightGrams: 180,
		CO2:         5.6,
		Score:       95,
	}
}

func TestStyleCardStore_PutGetDelete(t *testing.T) {
	t.Parallel()

	s := newTestCardStore(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	stored, err := s.Put(sampleCard("Basic Tee"))
	require.NoError(t, err)
	require.NotEmpty(t, stored.ID)
	assert.Equal(t, base.Add(time.Second), stored.CreatedAt)

	byName, err := s.Get("basic tee")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, byName.ID)

	// Update keeps CreatedAt.
	stored.Score = 80
	updated, err := s.Put(stored)
	require.NoError(t, err)
	assert.Equal(t, stored.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(stored.UpdatedAt))
	assert.Equal(t, 1, s.Count())

	require.NoError(t, s.Delete(stored.ID))
	_, err = s.Get(stored.ID)
	require.ErrorIs(t, err, ErrCardNotFound)
	require.ErrorIs(t, s.Delete("ghost"), ErrCardNotFound)
}

func TestStyleCardStore_Validation(t *testing.T) {
	t.Parallel()

	s := newTestCardStore(t)
	_, err := s.Put(nil)
	require.Error(t, err)
	_, err = s.Put(&StyleCard{Name: "  "})
	require.Error(t, err)
}

func TestStyleCardStore_CopiesAreIndependent(t *testing.T) {
	t.Parallel()

	s := newTestCardStore(t)
	card := sampleCard("Tee")
	stored, err := s.Put(card)
	require.NoError(t, err)

	card.Fibers[0].Percentage = 1
	stored.Processes.Dyeing.NaturalDye = false

	got, err := s.Get(stored.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.Fibers[0].Percentage, 1e-9)
	assert.True(t, got.Processes.Dyeing.NaturalDye)
}

func TestStyleCardStore_ListOrder(t *testing.T) {
	t.Parallel()

	s := newTestCardStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"c", "a", "b"} {
		card := sampleCard(name)
		card.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := s.Put(card)
		require.NoError(t, err)
	}

	var names []string
	for _, c := range s.List() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names, "oldest first")
}

func TestStyleCardStore_SaveLoad(t *testing.T) {
	t.Parallel()

	s := newTestCardStore(t)
	stored, err := s.Put(sampleCard("Denim"))
	require.NoError(t, err)
	require.NoError(t, s.Save())

	_, err = os.Stat(s.FilePath() + ".lock")
	assert.True(t, os.IsNotExist(err), "lock is released")

	reloaded, err := NewStyleCardStore(s.FilePath())
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	got, err := reloaded.Get(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Denim", got.Name)
	assert.Equal(t, stored.Garment(), got.Garment())
}

func TestStyleCardStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	s := newTestCardStore(t)
	require.NoError(t, s.Load())
	assert.Zero(t, s.Count())
}

func TestStyleCardStore_LoadRejectsBadFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{"},
		{name: "bad schema", content: `{"schema":"one","cards":{}}`},
		{name: "future major", content: `{"schema":"2.0.0","cards":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestCardStore(t)
			require.NoError(t, os.WriteFile(s.FilePath(), []byte(tt.content), 0o600))
			require.ErrorIs(t, s.Load(), ErrCardStoreCorrupted)
		})
	}

	t.Run("older minor is accepted", func(t *testing.T) {
		t.Parallel()
		s := newTestCardStore(t)
		require.NoError(t, os.WriteFile(s.FilePath(), []byte(`{"schema":"1.0.0","cards":null}`), 0o600))
		require.NoError(t, s.Load())
		assert.Zero(t, s.Count())
	})
}

func TestStyleCardStore_ConcurrentPut(t *testing.T) {
	t.Parallel()

	s := newTestCardStore(t)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Put(sampleCard("x"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, s.Count())
}

func TestAcquireFileLock_RemovesStaleLock(t *testing.T) {
	t.Parallel()

	lock := filepath.Join(t.TempDir(), "cards.json.lock")
	require.NoError(t, os.WriteFile(lock, []byte("999999999"), 0o600))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(lock, old, old))

	unlock, err := acquireFileLock(lock)
	require.NoError(t, err)
	unlock()
}
