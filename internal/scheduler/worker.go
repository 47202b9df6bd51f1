// Package scheduler runs the periodic IndiaMART fetch through asynq.
package scheduler

import (
	"context"
	"time"

	"indiamart_bridge/platform/config"
	"indiamart_bridge/platform/logger"

	"github.com/hibiken/asynq"
)

// LeadFetcher is the slice of the orchestrator the worker needs.
type LeadFetcher interface {
	FetchScheduled(ctx context.Context, lookback time.Duration)
}

// Worker consumes scheduled fetch tasks.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	fetcher  LeadFetcher
	lookback time.Duration
	log      *logger.Logger
}

// NewWorker creates the asynq worker with the fetch handler registered.
func NewWorker(cfg config.SchedulerConfig, fetcher LeadFetcher, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues: map[string]int{
			cfg.GetAsynqQueueName(): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		fetcher:  fetcher,
		lookback: cfg.GetFetchLookback(),
		log:      log,
	}

	mux.HandleFunc(TaskFetchLeads, w.handleFetchLeads)

	return w, nil
}

// handleFetchLeads runs one scheduled fetch. FetchScheduled swallows fetch
// errors after logging them, so the task itself never fails or retries.
func (w *Worker) handleFetchLeads(ctx context.Context, _ *asynq.Task) error {
	w.fetcher.FetchScheduled(ctx, w.lookback)
	return nil
}

// Run blocks serving tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
