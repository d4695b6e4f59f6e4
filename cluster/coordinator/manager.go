package coordinator

import (
	"sync"

	"go.uber.org/zap"
)

// ConsistencyManager is a bounded worker pool draining asynchronous
// consistency checks issued after weak reads. Tasks never propagate errors
// to clients; an overflowing queue drops work and logs.
type ConsistencyManager struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
	log   *zap.SugaredLogger
}

// NewConsistencyManager starts the pool with the given worker count and
// queue depth.
func NewConsistencyManager(workers, queueDepth int, log *zap.SugaredLogger) *ConsistencyManager {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}

	m := &ConsistencyManager{
		tasks: make(chan func(), queueDepth),
		log:   log,
	}
	for range workers {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for task := range m.tasks {
				task()
			}
		}()
	}
	return m
}

// Submit enqueues a check; it reports false when the queue is full and the
// task was dropped.
func (m *ConsistencyManager) Submit(task func()) bool {
	select {
	case m.tasks <- task:
		return true
	default:
		m.log.Debug("consistency check queue is full, dropping task")
		return false
	}
}

// Close drains the queue and stops the workers.
func (m *ConsistencyManager) Close() {
	m.once.Do(func() {
		close(m.tasks)
	})
	m.wg.Wait()
}
