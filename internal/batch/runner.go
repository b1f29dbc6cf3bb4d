package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/store-recon/internal/jobs"
	"github.com/dvloznov/store-recon/internal/jobs/inmemory"
	"github.com/dvloznov/store-recon/internal/journal"
)

// Builder runs one reconciliation unit. Implemented by journal.Service.
type Builder interface {
	BuildJournal(ctx context.Context, opts journal.JournalOptions) error
	BuildDashboard(ctx context.Context, reportMonth, folderID string) error
}

// Runner expands (stores x recent months) into reconciliation jobs and drives
// them through a bounded worker queue. Order-level journals run first because
// the carry-forward queries join against the order-level table.
type Runner struct {
	builder   Builder
	stores    map[string]journal.StoreInfo
	months    int
	startDate time.Time
	workers   int
	log       zerolog.Logger
}

// NewRunner creates a batch runner over the given stores.
// months is how many recent report months each store is rebuilt for.
func NewRunner(builder Builder, stores map[string]journal.StoreInfo, months int, startDate time.Time, workers int, log zerolog.Logger) *Runner {
	return &Runner{
		builder:   builder,
		stores:    stores,
		months:    months,
		startDate: startDate,
		workers:   workers,
		log:       log,
	}
}

// Result aggregates the outcomes of one batch run.
type Result struct {
	mu        sync.Mutex
	Completed int
	Skipped   int
	Failed    int
}

func (r *Result) add(status jobs.JobStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch status {
	case jobs.JobStatusCompleted:
		r.Completed++
	case jobs.JobStatusSkipped:
		r.Skipped++
	case jobs.JobStatusFailed:
		r.Failed++
	}
}

// Run rebuilds everything: both order-level journals, then the monthly journal
// for every (store, month), then the dashboard for every (store, month).
// Units without source rows are counted as skipped and never abort the batch.
func (r *Runner) Run(ctx context.Context, reportMonth string) (*Result, error) {
	if r.months < 1 {
		return nil, fmt.Errorf("Run: batch needs at least one month, got %d", r.months)
	}
	months, err := journal.MonthsBackInclusive(reportMonth, r.months-1)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	result := &Result{}

	// The order-level tables are global, not per store, so they are rebuilt
	// once up front.
	for _, transform := range []bool{false, true} {
		err := r.builder.BuildJournal(ctx, journal.JournalOptions{
			StartDate: r.startDate,
			Transform: transform,
		})
		switch {
		case journal.IsSkip(err):
			r.log.Warn().Bool("transform", transform).Msg("order journal skipped")
			result.add(jobs.JobStatusSkipped)
		case err != nil:
			return result, fmt.Errorf("Run: order journal (transform=%v): %w", transform, err)
		default:
			result.add(jobs.JobStatusCompleted)
		}
	}

	// Dashboards read the journal rows of their own and prior months, so the
	// journal phase must drain completely before the dashboard phase starts.
	if err := r.runPhase(ctx, jobs.JobTypeBuildJournal, months, result); err != nil {
		return result, fmt.Errorf("Run: journal phase: %w", err)
	}
	if err := r.runPhase(ctx, jobs.JobTypeBuildDashboard, months, result); err != nil {
		return result, fmt.Errorf("Run: dashboard phase: %w", err)
	}

	r.log.Info().
		Int("completed", result.Completed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("batch finished")
	return result, nil
}

// runPhase publishes one job per (store, month) and waits for every job to
// reach a terminal state.
func (r *Runner) runPhase(ctx context.Context, kind jobs.JobType, months []string, result *Result) error {
	store := inmemory.NewStore()
	queue := inmemory.NewQueue(len(r.stores)*len(months), r.workers, store)
	defer queue.Close()

	var wg sync.WaitGroup
	handler := func(ctx context.Context, job *jobs.ReconJob) error {
		err := r.execute(ctx, job)
		if journal.IsSkip(err) {
			r.log.Warn().
				Str("kind", string(job.Kind)).
				Str("folder_id", job.FolderID).
				Str("month", job.Month).
				Msg("unit skipped")
			job.Status = jobs.JobStatusSkipped
			result.add(jobs.JobStatusSkipped)
			wg.Done()
			return nil
		}
		if err != nil {
			// The queue re-enqueues until retries are exhausted; only the
			// terminal failure settles the job.
			if job.RetryCount >= job.MaxRetries {
				r.log.Error().Err(err).
					Str("kind", string(job.Kind)).
					Str("folder_id", job.FolderID).
					Str("month", job.Month).
					Msg("unit failed")
				result.add(jobs.JobStatusFailed)
				wg.Done()
			}
			return err
		}
		result.add(jobs.JobStatusCompleted)
		wg.Done()
		return nil
	}

	if err := queue.Start(ctx, handler); err != nil {
		return err
	}

	for folderID := range r.stores {
		for _, month := range months {
			wg.Add(1)
			job := &jobs.ReconJob{Kind: kind, FolderID: folderID, Month: month}
			if err := queue.Publish(ctx, job); err != nil {
				wg.Done()
				return fmt.Errorf("publishing %s %s/%s: %w", kind, folderID, month, err)
			}
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return queue.Stop(ctx)
}

func (r *Runner) execute(ctx context.Context, job *jobs.ReconJob) error {
	switch job.Kind {
	case jobs.JobTypeBuildJournal:
		return r.builder.BuildJournal(ctx, journal.JournalOptions{
			JournalBase: true,
			DataMonth:   job.Month,
			FolderID:    job.FolderID,
		})
	case jobs.JobTypeBuildDashboard:
		return r.builder.BuildDashboard(ctx, job.Month, job.FolderID)
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}
