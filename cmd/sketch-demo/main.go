// Command sketch-demo builds a polygon sketch in a shape, persists it to the
// configured archive, and exports snapshot artifacts to the configured blob
// store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"brepcore/internal/blob"
	"brepcore/internal/config"
	"brepcore/internal/core"
	"brepcore/internal/export"
	"brepcore/internal/ops"
	"brepcore/pkg/geom"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sketch-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	minDistance := flag.Float64("min-distance", 5e-7, "minimum distance between distinct vertices")
	sides := flag.Int("sides", 4, "number of polygon sides (>= 3)")
	radius := flag.Float64("radius", 1.0, "polygon circumradius")
	flag.Parse()

	if *sides < 3 {
		return fmt.Errorf("need at least 3 sides, got %d", *sides)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shape, err := core.OpenShape(ctx, cfg.Storage, *minDistance, core.WithLogger(core.NewSlogLogger(logger)))
	if err != nil {
		return fmt.Errorf("open shape: %w", err)
	}
	defer func() {
		if err := shape.Close(); err != nil {
			logger.Warn("close archive", "error", err)
		}
	}()

	sketch := ops.NewSketch(regularPolygon(*sides, *radius)...)
	result, err := ops.BuildPolygon(ctx, shape, sketch)
	if err != nil {
		return fmt.Errorf("build polygon: %w", err)
	}
	logger.Info("polygon built", "sides", *sides, "face", result.Face.String())

	store, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	worker := export.NewWorker(shape, store, nil, cfg.Export.QueueSize)
	worker.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := worker.Stop(stopCtx); err != nil {
			logger.Warn("stop export worker", "error", err)
		}
	}()

	record, err := worker.Enqueue(ctx, export.Input{
		Formats:     []export.Format{export.FormatJSON, export.FormatOBJ},
		RequestedBy: "sketch-demo",
	})
	if err != nil {
		return fmt.Errorf("enqueue export: %w", err)
	}

	record, err = waitForExport(worker, record.ID, 10*time.Second)
	if err != nil {
		return err
	}
	for _, artifact := range record.Artifacts {
		fmt.Printf("%s\t%s\t%d bytes\t%s\n", artifact.Format, artifact.Key, artifact.SizeBytes, artifact.URL)
	}

	for kind, n := range shape.Counts() {
		logger.Info("stored objects", "kind", string(kind), "count", n)
	}
	return nil
}

func waitForExport(worker *export.Worker, id string, timeout time.Duration) (export.Record, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		record, ok := worker.GetExport(id)
		if !ok {
			return export.Record{}, fmt.Errorf("export %s not found", id)
		}
		switch record.Status {
		case export.StatusSucceeded:
			return record, nil
		case export.StatusFailed:
			return record, fmt.Errorf("export failed: %s", record.Error)
		}
		time.Sleep(50 * time.Millisecond)
	}
	return export.Record{}, fmt.Errorf("export %s timed out", id)
}

func regularPolygon(sides int, radius float64) []geom.Point {
	points := make([]geom.Point, 0, sides)
	for i := 0; i < sides; i++ {
		angle := 2 * math.Pi * float64(i) / float64(sides)
		points = append(points, geom.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return points
}
