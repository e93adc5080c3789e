// Package worker runs flaky-test detection asynchronously so report ingestion
// never waits on history queries.
package worker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/istorrs/junit-test-results-sub000/internal/pkg/logger"
	"github.com/istorrs/junit-test-results-sub000/internal/service"
)

// FlakyWorker consumes run ids from a bounded queue and runs flaky detection
// on each. Implements service.FlakyNotifier.
type FlakyWorker struct {
	svc   service.FlakyService
	queue chan int64
	stop  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewFlakyWorker creates a worker with the given queue capacity
func NewFlakyWorker(svc service.FlakyService, queueSize int) *FlakyWorker {
	return &FlakyWorker{
		svc:   svc,
		queue: make(chan int64, queueSize),
		stop:  make(chan struct{}),
	}
}

// Start launches the consumer goroutine
func (w *FlakyWorker) Start() {
	w.wg.Add(1)
	go w.loop()
	logger.Info("flaky detection worker started", zap.Int("queue_size", cap(w.queue)))
}

func (w *FlakyWorker) loop() {
	defer w.wg.Done()
	for {
		select {
		case runID := <-w.queue:
			w.detect(runID)
		case <-w.stop:
			// drain whatever is still queued before exiting
			for {
				select {
				case runID := <-w.queue:
					w.detect(runID)
				default:
					return
				}
			}
		}
	}
}

func (w *FlakyWorker) detect(runID int64) {
	resp, err := w.svc.DetectForRun(runID)
	if err != nil {
		logger.Error("flaky detection failed",
			zap.Int64("run_id", runID),
			zap.Error(err))
		return
	}
	logger.Debug("flaky detection finished",
		zap.Int64("run_id", runID),
		zap.Int("evaluated", resp.Evaluated),
		zap.Int("flagged", resp.Flagged))
}

// Enqueue hands a run to the worker without blocking. Returns false when the
// queue is full, the run is then simply skipped.
func (w *FlakyWorker) Enqueue(runID int64) bool {
	select {
	case w.queue <- runID:
		return true
	default:
		return false
	}
}

// Stop shuts the worker down, waiting for the queue to drain
func (w *FlakyWorker) Stop() {
	w.once.Do(func() {
		close(w.stop)
	})
	w.wg.Wait()
	logger.Info("flaky detection worker stopped")
}
