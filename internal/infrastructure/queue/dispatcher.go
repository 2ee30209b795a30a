package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/appfounders/marketplace/internal/api/metrics"
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes moderation decisions to a fixed set of workers using
// consistent hashing on the app ID, so decisions for one app apply in order.
type Dispatcher struct {
	workers []chan ports.ModerationInput
	service ports.ModerationService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ModerationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ModerationInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ModerationInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends a decision to the worker responsible for its app.
// The call blocks once that worker's buffer is full.
func (d *Dispatcher) Enqueue(in ports.ModerationInput) {
	idx := d.shardIndex(in.AppID)
	d.workers[idx] <- in
	metrics.ModerationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues decisions preserving per-app ordering.
func (d *Dispatcher) EnqueueBatch(inputs []ports.ModerationInput) {
	for _, in := range inputs {
		d.Enqueue(in)
	}
}

// shardIndex maps an app ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(appID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(appID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ModerationInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			metrics.ModerationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, in)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, in ports.ModerationInput) {
	start := time.Now()
	err := d.service.Process(ctx, in)
	if err != nil {
		metrics.ModerationProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.ModerationErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		d.log.Error().Err(err).
			Str("app_id", in.AppID).
			Str("status", in.Status).
			Int("worker_id", workerID).
			Msg("moderation processing failed")
		return
	}
	metrics.ModerationProcessingDuration.WithLabelValues(in.Status).Observe(time.Since(start).Seconds())
	metrics.ModerationProcessedTotal.WithLabelValues(in.Status).Inc()
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrAppNotFound):
		return "app_not_found"
	default:
		return "update_failed"
	}
}
