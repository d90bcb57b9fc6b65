package jobs

import (
	"errors"
	"sync"
)

// ErrJobInFlight is returned when a job is dispatched while another is current.
var ErrJobInFlight = errors.New("another job is still running")

// Registry holds at most one current job.
type Registry struct {
	mu      sync.Mutex
	current *Job
}

// Acquire makes job current, or fails when the slot is taken.
func (r *Registry) Acquire(job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return ErrJobInFlight
	}
	r.current = job
	return nil
}

// Release frees the slot if it still holds job id.
func (r *Registry) Release(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.ID != id {
		return false
	}
	r.current = nil
	return true
}

// Current returns the current job, if any.
func (r *Registry) Current() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Abandon cancels and releases the current job.
func (r *Registry) Abandon() *Job {
	r.mu.Lock()
	job := r.current
	r.current = nil
	r.mu.Unlock()
	if job != nil {
		job.cancel()
	}
	return job
}
