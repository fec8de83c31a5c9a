package queue

import "errors"

// ErrQueueFull is returned when an item cannot be enqueued without blocking.
var ErrQueueFull = errors.New("queue is full")

// ErrQueueEmpty is returned when dequeuing from an empty queue.
var ErrQueueEmpty = errors.New("queue is empty")

// Queue represents a basic queue.
type Queue interface {
	Enqueue(item interface{}) error
	Dequeue() (interface{}, error)
	Size() int
	ReadAllMessages() ([]interface{}, error)
	ClearQueue()
}
