package collection_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rshade/zerodesign/internal/collection"
	"github.com/rshade/zerodesign/internal/footprint"
)

// generateGarments builds n garments cycling through common compositions.
func generateGarments(n int) []footprint.Garment {
	blends := [][]footprint.FiberComponent{
		{{Type: footprint.FiberCotton, Percentage: 100}},
		{{Type: footprint.FiberPolyester, Percentage: 65}, {Type: footprint.FiberCotton, Percentage: 35}},
		{{Type: footprint.FiberCotton, Percentage: 95}, {Type: footprint.FiberElastane, Percentage: 5}},
		{{Type: footprint.FiberWool, Percentage: 80}, {Type: footprint.FiberNylon, Percentage: 20}},
	}
	garments := make([]footprint.Garment, n)
	for i := range n {
		garments[i] = footprint.Garment{
			Name:        fmt.Sprintf("garment-%d", i),
			Fibers:      blends[i%len(blends)],
			Processes:   footprint.ProcessConfig{Dyeing: &footprint.DyeingConfig{}},
			WeightGrams: float64(150 + i%10*50),
		}
	}
	return garments
}

func benchmarkOptimize(b *testing.B, n int) {
	b.ReportAllocs()
	garments := generateGarments(n)
	opt := collection.NewOptimizer(footprint.DefaultFactorTable())
	ctx := context.Background()

	b.ResetTimer()
	for range b.N {
		if _, err := opt.Optimize(ctx, garments, collection.DefaultTargetReduction); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkOptimize_Collection covers a typical seasonal collection.
func BenchmarkOptimize_Collection(b *testing.B) { benchmarkOptimize(b, 100) }

// BenchmarkOptimize_LargeCatalog covers a full catalog of 10k garments.
func BenchmarkOptimize_LargeCatalog(b *testing.B) { benchmarkOptimize(b, 10000) }
