package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

// ErrSyncIncomplete is returned when some records could not be mirrored
var ErrSyncIncomplete = errors.New("sync incomplete")

// RetryConfig defines retry behavior for batch inserts
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// SyncOptions configures a Syncer
type SyncOptions struct {
	Table     string
	BatchSize int
	RateLimit int // requests per minute, 0 for none
	Retry     RetryConfig
}

// SyncMetrics summarizes one Sync call
type SyncMetrics struct {
	TotalRecords    int64
	TotalSaved      int64
	TotalFailed     int64
	Batches         int64
	FallbackBatches int64
	Duration        time.Duration
}

// Syncer copies a RecordSet into a mirror table in batches
type Syncer struct {
	mirror      storage.Mirror
	rateLimiter *RateLimiter
	opts        SyncOptions
	logger      *slog.Logger
}

// NewSyncer creates a Syncer
func NewSyncer(mirror storage.Mirror, opts SyncOptions, logger *slog.Logger) *Syncer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.Retry.BackoffFactor <= 0 {
		opts.Retry.BackoffFactor = 2.0
	}
	return &Syncer{
		mirror:      mirror,
		rateLimiter: NewRateLimiter(),
		opts:        opts,
		logger:      logger,
	}
}

// Sync inserts records batch by batch. A batch that keeps failing after its
// retries falls back to one insert per record. Cancellation is checked
// between requests.
func (s *Syncer) Sync(ctx context.Context, records models.RecordSet) (SyncMetrics, error) {
	defer s.rateLimiter.Stop()

	start := time.Now()
	metrics := SyncMetrics{TotalRecords: int64(len(records))}

	for i := 0; i < len(records); i += s.opts.BatchSize {
		end := min(i+s.opts.BatchSize, len(records))
		batch := records[i:end]
		metrics.Batches++

		err := s.insertBatch(ctx, batch)
		if err == nil {
			metrics.TotalSaved += int64(len(batch))
			continue
		}
		if ctx.Err() != nil {
			metrics.Duration = time.Since(start)
			return metrics, ctx.Err()
		}

		s.logger.Warn("Batch insert failed, falling back to individual inserts",
			slog.String("table", s.opts.Table),
			slog.Int("batch_size", len(batch)),
			slog.Any("error", err))
		metrics.FallbackBatches++

		for _, record := range batch {
			if err := s.rateLimiter.Wait(ctx, s.opts.Table, s.opts.RateLimit); err != nil {
				metrics.Duration = time.Since(start)
				return metrics, err
			}
			if err := s.mirror.InsertRecord(s.opts.Table, record); err != nil {
				metrics.TotalFailed++
				s.logger.Error("Failed to insert record",
					slog.String("table", s.opts.Table),
					slog.String("id", record.String(models.FieldID)),
					slog.String("url", record.String(models.FieldURL)),
					slog.Any("error", err))
				continue
			}
			metrics.TotalSaved++
		}
	}

	metrics.Duration = time.Since(start)

	s.logger.Info("Sync completed",
		slog.String("table", s.opts.Table),
		slog.Int64("records", metrics.TotalRecords),
		slog.Int64("saved", metrics.TotalSaved),
		slog.Int64("failed", metrics.TotalFailed),
		slog.Duration("duration", metrics.Duration))

	if metrics.TotalFailed > 0 {
		return metrics, fmt.Errorf("%w: %d of %d records failed", ErrSyncIncomplete, metrics.TotalFailed, metrics.TotalRecords)
	}
	return metrics, nil
}

// insertBatch inserts one batch with rate limiting and retries
func (s *Syncer) insertBatch(ctx context.Context, batch models.RecordSet) error {
	var lastErr error

	for attempt := 0; attempt <= s.opts.Retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.backoffDelay(attempt)
			s.logger.Debug("Retrying batch insert",
				slog.String("table", s.opts.Table),
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := s.rateLimiter.Wait(ctx, s.opts.Table, s.opts.RateLimit); err != nil {
			return err
		}

		lastErr = s.mirror.InsertRecords(s.opts.Table, batch)
		if lastErr == nil {
			return nil
		}
	}

	return lastErr
}

// backoffDelay grows linearly with the attempt number, capped at MaxDelay
func (s *Syncer) backoffDelay(attempt int) time.Duration {
	delay := time.Duration(float64(s.opts.Retry.InitialDelay) *
		float64(attempt) * s.opts.Retry.BackoffFactor)

	if s.opts.Retry.MaxDelay > 0 && delay > s.opts.Retry.MaxDelay {
		delay = s.opts.Retry.MaxDelay
	}

	return delay
}
