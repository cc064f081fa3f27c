package worker

import (
	"sync"

	"github.com/gammazero/deque"
)

// jobChannel is an unbounded multi-producer multi-consumer FIFO of messages.
// Every message is handed to exactly one receiver.
type jobChannel struct {
	mu     sync.Mutex
	ready  *sync.Cond
	queue  deque.Deque[message]
	closed bool
}

func newJobChannel() *jobChannel {
	c := &jobChannel{}
	c.ready = sync.NewCond(&c.mu)
	return c
}

// send enqueues msg without blocking.
func (c *jobChannel) send(msg message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}
	c.queue.PushBack(msg)
	c.ready.Signal()
	return nil
}

// recv blocks until a message is available. Messages queued before close
// are still delivered; once the channel is closed and empty it returns
// ErrDisconnected.
func (c *jobChannel) recv() (message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.queue.Len() == 0 && !c.closed {
		c.ready.Wait()
	}
	if c.queue.Len() == 0 {
		return message{}, ErrDisconnected
	}
	return c.queue.PopFront(), nil
}

// close rejects further sends and wakes every blocked receiver.
func (c *jobChannel) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.ready.Broadcast()
}

// discard empties the queue and returns how many jobs were in it.
func (c *jobChannel) discard() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	jobs := 0
	for c.queue.Len() > 0 {
		if c.queue.PopFront().kind == msgNewJob {
			jobs++
		}
	}
	return jobs
}

func (c *jobChannel) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}
