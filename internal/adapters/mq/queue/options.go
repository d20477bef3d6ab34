package queue

// Option configures an InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity bounds the number of scheduled games waiting for a worker.
// Non-positive values keep the default.
func WithCapacity(games int) Option {
	return func(q *InMemoryQueue) {
		if games > 0 {
			q.capacity = games
		}
	}
}
