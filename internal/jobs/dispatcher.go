// Package jobs turns form state into server jobs. A dispatch assigns the job
// ID, starts the progress monitor for it, submits the request, and hands the
// final payload to the result surface. The payload and the progress stream
// are independent; neither waits for the other.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobid"
	"github.com/atomicstack/hipparchia-console/internal/logging"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	"github.com/atomicstack/hipparchia-console/internal/progress"
)

const maxIDAttempts = 8

// Client is the subset of the server client a dispatcher needs.
type Client interface {
	Submit(ctx context.Context, path, rawQuery string) (hipparchia.Payload, error)
	ConfirmPort(ctx context.Context, kind hipparchia.Kind, id string) (int, error)
}

// Surface receives final payloads.
type Surface interface {
	Reset()
	Render(hipparchia.Payload)
}

// Job is one dispatched request.
type Job struct {
	ID      string
	Kind    hipparchia.Kind
	Path    string
	Query   string
	Variant progress.Variant
	Started time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	monitor *progress.Monitor
	flows   sync.WaitGroup
}

// Context is cancelled when the job is abandoned.
func (j *Job) Context() context.Context {
	return j.ctx
}

// Monitor returns the progress monitor, or nil when the kind shows none.
func (j *Job) Monitor() *progress.Monitor {
	return j.monitor
}

// Options configures a Dispatcher.
type Options struct {
	IDs      *jobid.Generator
	Progress progress.Config
	Variants map[hipparchia.Kind]progress.Variant
	Surface  Surface
}

// Dispatcher starts and completes jobs.
type Dispatcher struct {
	client   Client
	ids      *jobid.Generator
	slot     *Registry
	progress progress.Config
	variants map[hipparchia.Kind]progress.Variant
	surface  Surface

	mu     sync.Mutex
	issued map[string]struct{}
}

// DefaultVariants maps each job kind to its progress rendering.
func DefaultVariants() map[hipparchia.Kind]progress.Variant {
	return map[hipparchia.Kind]progress.Variant{
		hipparchia.KindSearch:        progress.VariantFull,
		hipparchia.KindReverseLookup: progress.VariantFull,
		hipparchia.KindIndex:         progress.VariantSimple,
		hipparchia.KindVocab:         progress.VariantSimple,
		hipparchia.KindLexicalLookup: progress.VariantNone,
		hipparchia.KindText:          progress.VariantNone,
	}
}

// New builds a dispatcher around client.
func New(client Client, opts Options) *Dispatcher {
	ids := opts.IDs
	if ids == nil {
		ids = jobid.New(nil)
	}
	variants := DefaultVariants()
	for kind, v := range opts.Variants {
		variants[kind] = v
	}
	cfg := opts.Progress
	if cfg.Locator == nil {
		cfg.Locator = client
	}
	return &Dispatcher{
		client:   client,
		ids:      ids,
		slot:     &Registry{},
		progress: cfg,
		variants: variants,
		surface:  opts.Surface,
		issued:   make(map[string]struct{}),
	}
}

// Registry exposes the single job slot.
func (d *Dispatcher) Registry() *Registry {
	return d.slot
}

// Variant returns the progress rendering used for kind.
func (d *Dispatcher) Variant(kind hipparchia.Kind) progress.Variant {
	if v, ok := d.variants[kind]; ok {
		return v
	}
	return progress.VariantNone
}

// Start claims the job slot, assigns an ID, and starts the progress monitor.
// The submission itself happens in Await.
func (d *Dispatcher) Start(ctx context.Context, req Request) (*Job, error) {
	if current := d.slot.Current(); current != nil {
		events.Job.Rejected(string(req.Kind), current.ID)
		return nil, ErrJobInFlight
	}
	id, err := d.nextID()
	if err != nil {
		return nil, err
	}
	path, query, err := req.target(id)
	if err != nil {
		return nil, err
	}
	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		ID:      id,
		Kind:    req.Kind,
		Path:    path,
		Query:   query,
		Variant: d.Variant(req.Kind),
		Started: time.Now(),
		ctx:     jobCtx,
		cancel:  cancel,
	}
	if err := d.slot.Acquire(job); err != nil {
		cancel()
		events.Job.Rejected(string(req.Kind), id)
		return nil, err
	}
	events.Job.Start(id, string(req.Kind), path)
	if t, ok := d.progress.Display.(progress.Tracker); ok {
		t.Track(id)
	}

	job.flows.Add(1)
	if r := job.Variant.Renderer(); r != nil {
		job.monitor = progress.New(d.progress, req.Kind, id, r)
		job.flows.Add(1)
		go func() {
			defer job.flows.Done()
			if err := job.monitor.Run(jobCtx); err != nil {
				logging.Error(err)
			}
		}()
	}
	go func() {
		job.flows.Wait()
		cancel()
	}()
	return job, nil
}

// Await submits job and returns its payload. Failures are not retried and
// leave any progress display in place.
func (d *Dispatcher) Await(ctx context.Context, job *Job) (hipparchia.Payload, error) {
	defer job.flows.Done()
	defer d.slot.Release(job.ID)

	submitCtx := job.ctx
	if ctx != nil && ctx != job.ctx {
		var stop context.CancelFunc
		submitCtx, stop = context.WithCancel(job.ctx)
		defer stop()
		unlink := context.AfterFunc(ctx, stop)
		defer unlink()
	}
	payload, err := d.client.Submit(submitCtx, job.Path, job.Query)
	if err != nil {
		events.Job.Failed(job.ID, err)
		return hipparchia.Payload{}, fmt.Errorf("%s job %s: %w", job.Kind, job.ID, err)
	}
	return payload, nil
}

// Deliver clears the previous result and its behavior, then renders payload.
func (d *Dispatcher) Deliver(job *Job, payload hipparchia.Payload) {
	if d.surface == nil {
		return
	}
	d.surface.Reset()
	d.surface.Render(payload)
	events.Job.Delivered(job.ID, len(payload.Results))
}

// Run is Start, Await, and Deliver in sequence.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Job, hipparchia.Payload, error) {
	job, err := d.Start(ctx, req)
	if err != nil {
		return nil, hipparchia.Payload{}, err
	}
	payload, err := d.Await(ctx, job)
	if err != nil {
		return job, payload, err
	}
	d.Deliver(job, payload)
	return job, payload, nil
}

// Abandon cancels the current job, if any, and frees the slot.
func (d *Dispatcher) Abandon() *Job {
	job := d.slot.Abandon()
	if job != nil {
		events.Job.Abandoned(job.ID)
	}
	return job
}

func (d *Dispatcher) nextID() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < maxIDAttempts; i++ {
		id, err := d.ids.Next()
		if err != nil {
			return "", fmt.Errorf("job id: %w", err)
		}
		if _, seen := d.issued[id]; seen {
			continue
		}
		d.issued[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("job id: no unused identifier after %d attempts", maxIDAttempts)
}
