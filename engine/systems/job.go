package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/esutil/engine/core"
)

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

/**
 * @brief A unit of CPU work, such as generating a mesh. Jobs must not call
 * into a shader.Driver: the GL context belongs to the render goroutine.
 */
type Job struct {
	Name string
	/** @brief The work itself. Runs on a worker goroutine. */
	Run func() (interface{}, error)
	/** @brief Called on the worker with the result when Run succeeds. May be nil. */
	OnComplete func(result interface{})
	/** @brief Called on the worker when Run fails. May be nil. */
	OnFailure func(err error)
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan Job
	done       chan struct{}
	wg         sync.WaitGroup
	inFlight   sync.WaitGroup
	senders    sync.WaitGroup

	mutex  sync.Mutex
	closed bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
		done:       make(chan struct{}),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job Job) {
	defer js.inFlight.Done()

	result, err := job.Run()
	if err != nil {
		core.LogError("job '%s' failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete(result)
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full, until a worker frees a slot or Shutdown starts. Job
 * callbacks may Submit further jobs.
 */
func (js *JobSystem) Submit(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job '%s' has nothing to run", job.Name)
	}
	js.mutex.Lock()
	if js.closed {
		js.mutex.Unlock()
		return ErrJobSystemClosed
	}
	js.inFlight.Add(1)
	js.senders.Add(1)
	js.mutex.Unlock()
	defer js.senders.Done()

	select {
	case js.jobQueue <- job:
		return nil
	case <-js.done:
		js.inFlight.Done()
		return ErrJobSystemClosed
	}
}

// Wait blocks until every submitted job has finished. Calling it from a job
// callback never returns.
func (js *JobSystem) Wait() {
	js.inFlight.Wait()
}

/**
 * @brief Shuts the job system down after the queued jobs ran. Submissions
 * still waiting for queue space fail with ErrJobSystemClosed. Safe to call
 * more than once.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.closed {
		js.mutex.Unlock()
		return nil
	}
	js.closed = true
	close(js.done)
	js.mutex.Unlock()

	js.senders.Wait()
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}
