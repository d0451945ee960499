package utils

import "sync"

// GracefulContext - handle passed to a routine running under a
// GracefulRunner. The routine should return soon after Done() fires.
type GracefulContext interface {
	// Done is closed when the routine should wind down
	Done() <-chan struct{}

	// RunAsChild starts fn on its own goroutine under the same runner.
	// The runner is not considered finished until all children return.
	RunAsChild(fn func(GracefulContext))

	// Fail cancels the whole runner and records err as its result
	Fail(err error)
}

// RunnerResult - how a graceful runner ended
type RunnerResult int

const (
	// RunnerResultFinished - the routine and all children returned on their own
	RunnerResultFinished RunnerResult = iota

	// RunnerResultCancelled - Cancel was called
	RunnerResultCancelled

	// RunnerResultFailed - some routine called Fail
	RunnerResultFailed
)

// GracefulRunner - handle for a routine started with RunWithGracefulCancel
type GracefulRunner struct {
	done     chan struct{}
	finished chan struct{}
	wg       sync.WaitGroup

	signalOnce sync.Once
	resultMu   sync.Mutex
	result     RunnerResult
	err        error
}

// RunWithGracefulCancel - runs fn on a new goroutine and returns a
// handle through which it can be cancelled and awaited
func RunWithGracefulCancel(fn func(GracefulContext)) *GracefulRunner {
	runner := &GracefulRunner{
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}

	runner.wg.Add(1)
	go func() {
		defer runner.wg.Done()
		fn(&gracefulContext{runner: runner})
	}()

	go func() {
		runner.wg.Wait()
		close(runner.finished)
	}()

	return runner
}

// Cancel - signals the routine and all of its children and waits until they return
func (runner *GracefulRunner) Cancel() {
	runner.signal(RunnerResultCancelled, nil)
	<-runner.finished
}

// Wait - blocks until the routine and all of its children return.
// Returns a non-nil error when some routine called Fail.
func (runner *GracefulRunner) Wait() (RunnerResult, error) {
	<-runner.finished

	runner.resultMu.Lock()
	defer runner.resultMu.Unlock()
	return runner.result, runner.err
}

func (runner *GracefulRunner) signal(result RunnerResult, err error) {
	runner.signalOnce.Do(func() {
		runner.resultMu.Lock()
		runner.result = result
		runner.err = err
		runner.resultMu.Unlock()

		close(runner.done)
	})
}

type gracefulContext struct {
	runner *GracefulRunner
}

func (ctx *gracefulContext) Done() <-chan struct{} {
	return ctx.runner.done
}

func (ctx *gracefulContext) RunAsChild(fn func(GracefulContext)) {
	ctx.runner.wg.Add(1)
	go func() {
		defer ctx.runner.wg.Done()
		fn(&gracefulContext{runner: ctx.runner})
	}()
}

func (ctx *gracefulContext) Fail(err error) {
	ctx.runner.signal(RunnerResultFailed, err)
}
