package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/limaJavier/sectiontable/pkg/dataset"
	"github.com/limaJavier/sectiontable/pkg/model"
)

type BenchmarkResult struct {
	Seed           uint64
	Duration       int64 // Microseconds
	FilledSlots    int
	TotalSlots     int
	SectionsFilled int
	Shortfalls     int
	UnplacedHours  int
	Verified       bool
}

func main() {
	fs := pflag.NewFlagSet("benchmark", pflag.ExitOnError)
	filePath := fs.String("file", "", "Path to the input file; the built-in curriculum is used when empty")
	outFile := fs.String("out", "benchmark_results.csv", "Path to the CSV file to write")
	firstSeed := fs.Uint64("from", 0, "First seed of the sweep")
	seeds := fs.Int("seeds", 100, "Number of consecutive seeds to solve")
	workers := fs.Int("workers", runtime.NumCPU(), "Number of solves running at the same time")
	_ = fs.Parse(os.Args[1:])

	var input model.ModelInput
	var err error
	if *filePath == "" {
		input, err = dataset.Default()
	} else {
		input, err = model.InputFromFile(*filePath)
	}
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	results, err := sweep(context.Background(), input, *firstSeed, *seeds, *workers)
	if err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}

	file, err := os.Create(*outFile)
	if err != nil {
		log.Fatalf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := toCsv(file, results); err != nil {
		log.Fatalf("cannot write CSV file: %v", err)
	}

	verified := lo.CountBy(results, func(result BenchmarkResult) bool { return result.Verified })
	fmt.Printf("Solved %v seeds, %v verified, mean fill %.2f%%\n", len(results), verified, meanFill(results)*100)
}

// sweep solves the input once per seed. Every solve owns its constraint state, so solves run concurrently
func sweep(ctx context.Context, input model.ModelInput, firstSeed uint64, seeds, workers int) ([]BenchmarkResult, error) {
	if seeds < 0 {
		return nil, fmt.Errorf("seed count must not be negative: %v", seeds)
	}
	results := make([]BenchmarkResult, seeds)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(workers, 1))

	for i := range seeds {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := firstSeed + uint64(i)
			timetabler := model.NewGreedyTimetabler()

			start := time.Now()
			timetable, err := timetabler.Build(input, model.NewRand(seed))
			duration := time.Since(start)
			if err != nil {
				return fmt.Errorf("seed %v: %w", seed, err)
			}

			stats := model.Summarize(timetable, input)
			shortfalls := model.Shortfalls(timetable, input)
			results[i] = BenchmarkResult{
				Seed:           seed,
				Duration:       duration.Microseconds(),
				FilledSlots:    stats.FilledSlots,
				TotalSlots:     stats.TotalSlots,
				SectionsFilled: stats.SectionsFilled,
				Shortfalls:     len(shortfalls),
				UnplacedHours:  lo.SumBy(shortfalls, func(shortfall model.Shortfall) int { return shortfall.Missing() }),
				Verified:       timetabler.Verify(timetable, input),
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func meanFill(results []BenchmarkResult) float64 {
	if len(results) == 0 {
		return 0
	}
	return lo.SumBy(results, func(result BenchmarkResult) float64 {
		if result.TotalSlots == 0 {
			return 0
		}
		return float64(result.FilledSlots) / float64(result.TotalSlots)
	}) / float64(len(results))
}

func toCsv(w io.Writer, results []BenchmarkResult) error {
	writer := csv.NewWriter(w)

	header := []string{"Seed", "Duration(us)", "FilledSlots", "TotalSlots", "SectionsFilled", "Shortfalls", "UnplacedHours", "Verified"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			fmt.Sprintf("%d", result.Seed),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%d", result.FilledSlots),
			fmt.Sprintf("%d", result.TotalSlots),
			fmt.Sprintf("%d", result.SectionsFilled),
			fmt.Sprintf("%d", result.Shortfalls),
			fmt.Sprintf("%d", result.UnplacedHours),
			fmt.Sprintf("%v", result.Verified),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
