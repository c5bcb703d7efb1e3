// Package animate runs a solve on a worker goroutine and hands its iterations
// to a render loop one frame at a time.
package animate

import (
	"context"
	"sync"

	"github.com/pthm-cable/reach/kinematics"
)

// Job is a solve (or sequence of solves) to animate. It must publish every
// iteration to obs and stop when ctx is done.
type Job func(ctx context.Context, obs kinematics.Observer) ([]kinematics.Result, error)

// Done is the outcome of a finished job.
type Done struct {
	Results []kinematics.Result
	Err     error
}

// Animator owns at most one running job. The job blocks after each iteration
// until the render loop takes the frame, so the solver advances one iteration
// per rendered frame.
//
// Animator methods must be called from a single goroutine (the render loop).
type Animator struct {
	frames  chan kinematics.Iteration
	done    chan Done
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates an idle animator.
func New() *Animator {
	return &Animator{}
}

// Start launches job on a worker goroutine, cancelling any job already running.
func (a *Animator) Start(ctx context.Context, job Job) {
	a.Stop()

	ctx, cancel := context.WithCancel(ctx)
	frames := make(chan kinematics.Iteration)
	done := make(chan Done, 1)
	a.frames, a.done, a.cancel = frames, done, cancel
	a.running = true

	obs := kinematics.ObserverFunc(func(it kinematics.Iteration) {
		select {
		case frames <- it:
		case <-ctx.Done():
		}
	})

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		results, err := job(ctx, obs)
		done <- Done{Results: results, Err: err}
	}()
}

// Running reports whether a job has been started and not yet collected.
func (a *Animator) Running() bool {
	return a.running
}

// Next returns the next iteration if the job has published one. It never
// blocks.
func (a *Animator) Next() (kinematics.Iteration, bool) {
	if !a.running {
		return kinematics.Iteration{}, false
	}
	select {
	case it := <-a.frames:
		return it, true
	default:
		return kinematics.Iteration{}, false
	}
}

// Poll returns the job's outcome once it has finished. After Poll reports
// done the animator is idle again.
func (a *Animator) Poll() (Done, bool) {
	if !a.running {
		return Done{}, false
	}
	select {
	case d := <-a.done:
		a.finish()
		return d, true
	default:
		return Done{}, false
	}
}

// Stop cancels the running job and waits for its goroutine to exit.
func (a *Animator) Stop() {
	if !a.running {
		return
	}
	a.finish()
}

func (a *Animator) finish() {
	a.cancel()
	a.wg.Wait()
	a.running = false
}
