// Package batch splits a slice of work items into fixed-size chunks and
// runs a callback over them, sequentially or with bounded concurrency.
// Collection optimisation uses it to score many style cards at once.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch size limits.
const (
	DefaultSize = 25
	MinSize     = 1
	MaxSize     = 1000
)

type constError string

func (e constError) Error() string { return string(e) }

const (
	ErrInvalidSize = constError("batch size must be between 1 and 1000")
	ErrNilCallback = constError("batch callback cannot be nil")
)

// Callback handles one chunk. offset is the index of batch[0] in the
// original slice.
type Callback[T any] func(ctx context.Context, batch []T, offset int) error

// ProgressFunc is notified after every completed chunk.
type ProgressFunc func(s Snapshot)

// Processor runs callbacks over fixed-size chunks.
type Processor[T any] struct {
	size       int
	onProgress ProgressFunc
}

// New returns a processor using chunks of size items.
func New[T any](size int) (*Processor[T], error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Processor[T]{size: size}, nil
}

// NewDefault returns a processor using DefaultSize.
func NewDefault[T any]() *Processor[T] {
	return &Processor[T]{size: DefaultSize}
}

// OnProgress sets the progress callback and returns p.
func (p *Processor[T]) OnProgress(fn ProgressFunc) *Processor[T] {
	p.onProgress = fn
	return p
}

// Size returns the chunk size.
func (p *Processor[T]) Size() int { return p.size }

// Bounds returns the [start, end) pairs covering n items.
func (p *Processor[T]) Bounds(n int) [][2]int {
	out := make([][2]int, 0, (n+p.size-1)/p.size)
	for start := 0; start < n; start += p.size {
		out = append(out, [2]int{start, min(start+p.size, n)})
	}
	return out
}

// Run processes chunks in order and stops at the first error. An empty
// slice is a no-op.
func (p *Processor[T]) Run(ctx context.Context, items []T, fn Callback[T]) error {
	if fn == nil {
		return ErrNilCallback
	}
	bounds := p.Bounds(len(items))
	progress := newProgress(len(items), len(bounds))

	for i, b := range bounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, items[b[0]:b[1]], b[0]); err != nil {
			return fmt.Errorf("batch %d: %w", i, err)
		}
		p.report(progress.add(b[1] - b[0]))
	}
	return nil
}

// RunConcurrent processes up to limit chunks at a time. All chunks run
// even if some fail; their errors are joined.
func (p *Processor[T]) RunConcurrent(ctx context.Context, items []T, fn Callback[T], limit int) error {
	if fn == nil {
		return ErrNilCallback
	}
	bounds := p.Bounds(len(items))
	progress := newProgress(len(items), len(bounds))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))

	errs := make([]error, len(bounds))
	for i, b := range bounds {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		g.Go(func() error {
			if err := fn(ctx, items[b[0]:b[1]], b[0]); err != nil {
				errs[i] = fmt.Errorf("batch %d: %w", i, err)
				return nil
			}
			p.report(progress.add(b[1] - b[0]))
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (p *Processor[T]) report(s Snapshot) {
	if p.onProgress != nil {
		p.onProgress(s)
	}
}
