package integration

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/iwvelando/builduction/internal/calculator"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/internal/store"
	"github.com/iwvelando/builduction/pkg/optional"
	"github.com/iwvelando/builduction/pkg/output"
	"go.uber.org/zap"
)

func generatedProjects(n int) []*project.Project {
	projects := make([]*project.Project, n)
	for i := range projects {
		p := project.New()
		p.LandSize = optional.Some(float64(100 + i))
		p.DensityPercentage = optional.Some(60.0)
		p.FloorCount = optional.Some(float64(1 + i%10))
		p.BuildCostPerMeter = optional.Some(10_000_000.0)
		p.SalesPricePerMeter = optional.Some(30_000_000.0)
		p.PurchasePricePerMeter = optional.Some(25_000_000.0)
		p.BuilderPercentage = optional.Some(50.0)
		projects[i] = p
	}
	return projects
}

// TestPerformance tests performance characteristics of the full pipeline.
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	start := time.Now()
	projects := loadAndCalculate(t, testConfigPath)
	loadTime := time.Since(start)

	projects = append(projects, generatedProjects(1000)...)

	start = time.Now()
	for _, p := range projects {
		calculator.Calculate(p)
	}
	calcTime := time.Since(start)

	start = time.Now()
	if err := output.WriteCSV(io.Discard, projects); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	csvTime := time.Since(start)

	t.Logf("Performance results: load=%v calculate=%v csv=%v (%d projects)", loadTime, calcTime, csvTime, len(projects))

	if calcTime > 2*time.Second {
		t.Errorf("Calculating %d projects took too long: %v", len(projects), calcTime)
	}
}

// TestMemoryStoreThroughput tests that the memory store keeps up with many records.
func TestMemoryStoreThroughput(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(zap.NewNop())
	projects := generatedProjects(500)

	for _, p := range projects {
		if err := s.Add(ctx, calculator.Calculate(p)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	stored, err := s.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(stored) != len(projects) {
		t.Errorf("Expected %d stored projects, got %d", len(projects), len(stored))
	}
}

func BenchmarkCalculate(b *testing.B) {
	p := generatedProjects(1)[0]
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		calculator.Calculate(p)
	}
}

func BenchmarkCsvString(b *testing.B) {
	projects := generatedProjects(100)
	for _, p := range projects {
		calculator.Calculate(p)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = output.CsvString(projects)
	}
}

func BenchmarkMemoryStoreAddOrUpdate(b *testing.B) {
	ctx := context.Background()
	s := store.NewMemoryStore(nil)
	projects := generatedProjects(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.AddOrUpdate(ctx, projects[i%len(projects)]); err != nil {
			b.Fatal(err)
		}
	}
}
