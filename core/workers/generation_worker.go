// ABOUTME: Generation worker runs AI document generation on a bounded worker pool
// ABOUTME: Caps concurrent provider calls and implements interfaces.Generator on top of the pool

package workers

import (
	"context"
	"sync"
	"time"

	"hostgenie-api/core/interfaces"
)

// GenerationJob represents a single document generation request
type GenerationJob struct {
	Prompt   string
	Model    string
	Context  context.Context
	ResultCh chan<- GenerationResult
}

// GenerationResult carries the outcome of a GenerationJob
type GenerationResult struct {
	HTML string
	Err  error
}

// GenerationWorker manages background generation processing
type GenerationWorker struct {
	generator     interfaces.Generator
	logger        interfaces.Logger
	jobQueue      chan *GenerationJob
	maxWorkers    int
	queueSize     int
	submitTimeout time.Duration
	workers       []*worker
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.Mutex
	running       bool
}

// worker represents an individual worker goroutine
type worker struct {
	id        int
	jobQueue  <-chan *GenerationJob
	generator interfaces.Generator
	logger    interfaces.Logger
	ctx       context.Context
	wg        *sync.WaitGroup
}

// WorkerConfig holds configuration for the generation worker
type WorkerConfig struct {
	MaxWorkers    int
	QueueSize     int
	SubmitTimeout time.Duration
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers:    4,
		QueueSize:     32,
		SubmitTimeout: 5 * time.Second,
	}
}

// NewGenerationWorker creates a new generation worker
func NewGenerationWorker(generator interfaces.Generator, logger interfaces.Logger, config WorkerConfig) *GenerationWorker {
	ctx, cancel := context.WithCancel(context.Background())

	defaults := DefaultWorkerConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = defaults.SubmitTimeout
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	return &GenerationWorker{
		generator:     generator,
		logger:        logger,
		jobQueue:      make(chan *GenerationJob, config.QueueSize),
		maxWorkers:    config.MaxWorkers,
		queueSize:     config.QueueSize,
		submitTimeout: config.SubmitTimeout,
		workers:       make([]*worker, 0, config.MaxWorkers),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start starts the worker pool
func (gw *GenerationWorker) Start() error {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.running {
		return nil
	}
	if gw.ctx.Err() != nil {
		return ErrWorkerStopped
	}

	for i := 0; i < gw.maxWorkers; i++ {
		w := &worker{
			id:        i,
			jobQueue:  gw.jobQueue,
			generator: gw.generator,
			logger:    gw.logger,
			ctx:       gw.ctx,
			wg:        &gw.wg,
		}
		gw.workers = append(gw.workers, w)
		gw.wg.Add(1)
		go w.run()
	}

	gw.running = true
	return nil
}

// Stop stops the worker pool gracefully. Jobs still queued are answered
// with ErrWorkerStopped.
func (gw *GenerationWorker) Stop() error {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if !gw.running {
		return nil
	}

	gw.cancel()
	gw.wg.Wait()

	for {
		select {
		case job := <-gw.jobQueue:
			deliver(job, GenerationResult{Err: ErrWorkerStopped})
		default:
			gw.running = false
			return nil
		}
	}
}

// SubmitJob submits a job to the worker pool
func (gw *GenerationWorker) SubmitJob(job *GenerationJob) error {
	gw.mu.Lock()
	if !gw.running {
		gw.mu.Unlock()
		return ErrWorkerNotRunning
	}
	gw.mu.Unlock()

	if job.Context == nil {
		job.Context = context.Background()
	}

	timer := time.NewTimer(gw.submitTimeout)
	defer timer.Stop()

	select {
	case gw.jobQueue <- job:
		return nil
	case <-job.Context.Done():
		return job.Context.Err()
	case <-gw.ctx.Done():
		return ErrWorkerStopped
	case <-timer.C:
		return ErrQueueFull
	}
}

// Generate submits a job and waits for its result
func (gw *GenerationWorker) Generate(ctx context.Context, prompt, model string) (string, error) {
	resultCh := make(chan GenerationResult, 1)
	if err := gw.SubmitJob(&GenerationJob{
		Prompt:   prompt,
		Model:    model,
		Context:  ctx,
		ResultCh: resultCh,
	}); err != nil {
		return "", err
	}

	select {
	case res := <-resultCh:
		return res.HTML, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// QueueLength returns the number of jobs waiting for a worker
func (gw *GenerationWorker) QueueLength() int {
	return len(gw.jobQueue)
}

// run is the main loop for each worker
func (w *worker) run() {
	defer w.wg.Done()

	for {
		select {
		case job := <-w.jobQueue:
			w.processJob(job)
		case <-w.ctx.Done():
			return
		}
	}
}

// processJob processes a single generation job
func (w *worker) processJob(job *GenerationJob) {
	if err := job.Context.Err(); err != nil {
		deliver(job, GenerationResult{Err: err})
		return
	}

	start := time.Now()
	html, err := w.generator.Generate(job.Context, job.Prompt, job.Model)
	fields := map[string]interface{}{
		"worker":   w.id,
		"model":    job.Model,
		"duration": time.Since(start).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		w.logger.Warn("Generation job failed", fields)
	} else {
		fields["bytes"] = len(html)
		w.logger.Debug("Generation job completed", fields)
	}

	deliver(job, GenerationResult{HTML: html, Err: err})
}

func deliver(job *GenerationJob, res GenerationResult) {
	if job.ResultCh == nil {
		return
	}
	select {
	case job.ResultCh <- res:
	case <-job.Context.Done():
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrWorkerStopped    = &WorkerError{Message: "worker pool has been stopped"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
