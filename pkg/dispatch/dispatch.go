// Package dispatch hands accepted jobs to a background executor so the
// synchronous request can be acknowledged immediately.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/alantheprice/outreach/pkg/utils"
)

// Job is one unit of pipeline work.
type Job struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	TeamID           string          `json:"teamId"`
	RegenerateSingle bool            `json:"regenerateSingle"`
	Async            bool            `json:"async"`
	Body             json.RawMessage `json:"body"`
}

// Handler executes a job.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) error

func (f HandlerFunc) Handle(ctx context.Context, job Job) error {
	return f(ctx, job)
}

// Dispatcher queues a job for asynchronous execution.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
	Close() error
}

// ErrNoHandler is returned when an in-process dispatcher has not been bound.
var ErrNoHandler = errors.New("dispatcher has no handler bound")

func ensureID(job *Job) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
}

// InProcess runs each job on its own goroutine.
type InProcess struct {
	handler Handler
	logger  *utils.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex
}

// NewInProcess creates a dispatcher. Bind must be called before Dispatch.
func NewInProcess(logger *utils.Logger) *InProcess {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &InProcess{logger: logger}
}

// Bind sets the handler jobs are run with.
func (d *InProcess) Bind(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = h
}

// Dispatch starts the job and returns immediately. The job runs detached
// from ctx so that it outlives the request that queued it; failures are
// logged.
func (d *InProcess) Dispatch(_ context.Context, job Job) error {
	d.mu.RLock()
	h := d.handler
	d.mu.RUnlock()
	if h == nil {
		return ErrNoHandler
	}

	ensureID(&job)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		logger := d.logger.WithCorrelationID(job.ID)
		logger.LogProcessStep("running job for user " + job.UserID)
		if err := h.Handle(context.Background(), job); err != nil {
			logger.LogError(err)
		}
	}()
	return nil
}

// Wait blocks until every dispatched job has finished.
func (d *InProcess) Wait() {
	d.wg.Wait()
}

// Close waits for running jobs.
func (d *InProcess) Close() error {
	d.Wait()
	return nil
}
