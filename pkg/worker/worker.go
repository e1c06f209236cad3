package worker

import (
	"errors"
	"sync"

	"github.com/subtrack/reminder-gateway/pkg/logger"
)

type Handler = func(workerIndex int, job interface{})

// Manager is a fixed-size goroutine pool fed through a buffered channel.
// Workers run until Exit() is called; the job channel is never closed
// because it may be shared with other producers.
type Manager struct {
	bufferSize int
	jobs       chan interface{}
	numWorkers int
	quit       chan struct{}
	do         Handler
	waiter     *sync.WaitGroup
}

func NewManager(bufferSize, numWorkers int, jobs chan interface{}) *Manager {
	if jobs == nil {
		jobs = make(chan interface{}, bufferSize)
	}
	return &Manager{
		bufferSize: bufferSize,
		numWorkers: numWorkers,
		jobs:       jobs,
		quit:       make(chan struct{}),
		waiter:     &sync.WaitGroup{},
	}
}

func (w *Manager) SetWorker(h Handler) {
	w.do = h
}

func (w *Manager) Pending() int64 {
	return int64(len(w.jobs))
}

// Enqueue publishes one job onto the channel; blocks when the buffer is full.
func (w *Manager) Enqueue(val interface{}) {
	w.jobs <- val
}

// Start launches the workers and blocks until Exit() is called.
func (w *Manager) Start() error {
	w.waiter.Add(w.numWorkers)
	for i := 0; i < w.numWorkers; i++ {
		go func(index int) {
			defer w.waiter.Done()
			for {
				select {
				case job := <-w.jobs:
					w.do(index, job)
				case <-w.quit:
					return
				}
			}
		}(i)
	}
	w.waiter.Wait()

	return errors.New("workers terminated")
}

// Exit stops all workers. Jobs still buffered in the channel are dropped.
func (w *Manager) Exit() {
	logger.Info("worker manager shutting down")
	close(w.quit)
}
