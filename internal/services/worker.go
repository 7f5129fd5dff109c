package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(id uuid.UUID)
}

// JobProcessor runs one queued CV analysis.
type JobProcessor interface {
	ReviewCV(ctx context.Context, cvAnalysisID uuid.UUID) error
}

type WorkerOptions struct {
	Concurrency  int
	PollInterval time.Duration
	QueueSize    int
}

type worker struct {
	cvRepo       repositories.CVAnalysisRepository
	processor    JobProcessor
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	logger       *zap.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewWorker(cvRepo repositories.CVAnalysisRepository, processor JobProcessor, opts WorkerOptions, logger *zap.Logger) Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Second
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &worker{
		cvRepo:       cvRepo,
		processor:    processor,
		jobQueue:     make(chan uuid.UUID, opts.QueueSize),
		concurrency:  opts.Concurrency,
		pollInterval: opts.PollInterval,
		logger:       logger,
		inflight:     make(map[uuid.UUID]struct{}),
		stopChan:     make(chan struct{}),
	}
}

func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// EnqueueJob queues id unless it is already queued or running.
func (w *worker) EnqueueJob(id uuid.UUID) {
	w.mu.Lock()
	if _, ok := w.inflight[id]; ok {
		w.mu.Unlock()
		return
	}
	w.inflight[id] = struct{}{}
	w.mu.Unlock()

	select {
	case w.jobQueue <- id:
		w.logger.Debug("job enqueued", zap.String("cv_analysis_id", id.String()))
	case <-w.stopChan:
		w.release(id)
		w.logger.Warn("worker stopped, job left queued", zap.String("cv_analysis_id", id.String()))
	}
}

func (w *worker) release(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inflight, id)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.jobQueue:
			log := w.logger.With(zap.Int("worker", workerID), zap.String("cv_analysis_id", id.String()))
			if err := w.processor.ReviewCV(ctx, id); err != nil {
				log.Error("job failed", zap.Error(err))
			} else {
				log.Info("job completed")
			}
			w.release(id)
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pendingJobs, err := w.cvRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
