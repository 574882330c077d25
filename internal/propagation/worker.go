package propagation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

// LookFunc computes the direction of a target at one instant.
type LookFunc func(t time.Time) (transform.LookAngles, error)

// sampleJob is one contiguous slice of the time grid.
type sampleJob struct {
	from, to int
}

// WorkerPool samples a target over a time grid with a fixed number of goroutines.
type WorkerPool struct {
	workers int
	logger  *slog.Logger
}

// NewWorkerPool creates a worker pool. workers <= 0 means runtime.NumCPU().
func NewWorkerPool(workers int, logger *slog.Logger) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{workers: workers, logger: logger}
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int { return wp.workers }

// Sample evaluates look at every timestamp. The result keeps the order of
// times. The first error stops the batch and is returned.
func (wp *WorkerPool) Sample(ctx context.Context, times []time.Time, look LookFunc) ([]visibility.Sample, error) {
	if len(times) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	samples := make([]visibility.Sample, len(times))
	chunk := (len(times) + wp.workers - 1) / wp.workers
	jobs := make(chan sampleJob, wp.workers)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				for k := job.from; k < job.to; k++ {
					if ctx.Err() != nil {
						return
					}
					la, err := look(times[k])
					if err != nil {
						fail(fmt.Errorf("sample %s: %w", times[k].Format(time.RFC3339), err))
						return
					}
					samples[k] = visibility.Sample{Time: times[k], Azimuth: la.AzimuthDeg, Altitude: la.ElevationDeg}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for from := 0; from < len(times); from += chunk {
			to := min(from+chunk, len(times))
			select {
			case jobs <- sampleJob{from: from, to: to}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	if firstErr != nil {
		wp.logger.Debug("sampling aborted", "error", firstErr)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}
