package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olamidek/coursehub/internal/jobs"
	"github.com/olamidek/coursehub/internal/notifications"
	"github.com/olamidek/coursehub/internal/observability"
	"github.com/olamidek/coursehub/internal/queue"
	"github.com/olamidek/coursehub/internal/whatsapp"
)

type EnrollmentWriter interface {
	Create(ctx context.Context, userID, productID string) error
}

type Config struct {
	DequeueWait time.Duration // BRPOP block per iteration
	WorkerID    string
}

// Worker drains the job queue: checkout notices go to the notifier with a
// pre-built chat link, enrollment reconciles retry the write-behind insert.
type Worker struct {
	cfg         Config
	queue       *queue.Queue
	notifier    notifications.Notifier
	enrollments EnrollmentWriter
	links       whatsapp.Builder
	log         *slog.Logger
	prom        *observability.Prom

	readyMu sync.RWMutex
	ready   bool
}

func New(cfg Config, q *queue.Queue, notifier notifications.Notifier, enrollments EnrollmentWriter, links whatsapp.Builder, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.DequeueWait <= 0 {
		cfg.DequeueWait = 2 * time.Second
	}

	return &Worker{
		cfg:         cfg,
		queue:       q,
		notifier:    notifier,
		enrollments: enrollments,
		links:       links,
		log:         log,
		prom:        prom,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	w.setReady(true)
	defer w.setReady(false)

	queueFailures := 0

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil
		default:
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			w.log.Error("job processing error", "err", err)
		}

		if !processed && err != nil {
			// queue unreachable: back off harder the longer it stays down
			queueFailures++

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(ExponentialBackoff(queueFailures)):
			}

			continue
		}

		queueFailures = 0
	}
}

// ProcessOne pulls and handles a single job. The bool reports whether a job
// was dequeued at all.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	j, err := w.queue.Dequeue(ctx, w.cfg.DequeueWait)

	if err != nil {
		if errors.Is(err, queue.ErrEmpty) {
			return false, nil
		}
		return false, err
	}

	w.log.Info("job claimed", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts, "worker_id", w.cfg.WorkerID)

	if err := w.execute(ctx, j); err != nil {
		w.handleFailure(ctx, j, err)
		return true, nil
	}

	return true, nil
}

func (w *Worker) execute(ctx context.Context, j jobs.Job) error {
	decoded, err := jobs.DecodePayload(j)

	if err != nil {
		return err
	}

	switch p := decoded.(type) {
	case jobs.CheckoutNoticePayload:
		return w.sendCheckoutNotice(ctx, p)

	case jobs.ReconcileEnrollmentPayload:
		return w.enrollments.Create(ctx, p.UserID, p.ProductID)

	default:
		return jobs.ErrInvalidJobType
	}
}

func (w *Worker) sendCheckoutNotice(ctx context.Context, p jobs.CheckoutNoticePayload) error {
	start := time.Now()

	err := w.notifier.SendCheckoutNotice(ctx, notifications.SendCheckoutNoticeInput{
		UserName:    p.UserName,
		UserEmail:   p.UserEmail,
		ProductName: p.ProductName,
		Price:       p.Price,
		Link:        w.links.PaymentLink(p.ProductName, p.Price, p.UserEmail),
	})

	if w.prom != nil {
		result := "done"
		if err != nil {
			result = "retry"
			if errors.Is(err, notifications.ErrCircuitOpen) {
				result = "circuit_open"
			}
		}

		w.prom.NoticeDuration.WithLabelValues(string(jobs.JobSendCheckoutNotice), result).Observe(time.Since(start).Seconds())
		w.prom.NoticeResults.WithLabelValues(string(jobs.JobSendCheckoutNotice), result).Inc()
	}

	return err
}

func (w *Worker) handleFailure(ctx context.Context, j jobs.Job, cause error) {
	if j.Attempts+1 >= j.MaxTries {
		w.log.Error("job dropped after max tries", "job_id", j.ID, "type", j.Type, "attempts", j.Attempts+1, "err", cause)
		return
	}

	delay := ExponentialBackoff(j.Attempts)
	w.log.Warn("job failed, requeueing", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts, "retry_in", delay, "err", cause)

	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	if err := w.queue.Requeue(ctx, j); err != nil {
		w.log.Error("requeue failed", "job_id", j.ID, "err", err)
	}
}

func (w *Worker) setReady(v bool) {
	w.readyMu.Lock()
	w.ready = v
	w.readyMu.Unlock()
}
