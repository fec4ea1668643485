package daemon

import (
	"sync"
	"time"

	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

// busCapacity bounds the number of undelivered messages kept per pipeline.
// Older messages are dropped first once the queue is full.
const busCapacity = 64

// bus is a per-pipeline message queue. Readers may block for a configurable
// timeout; a negative timeout blocks until a message arrives.
type bus struct {
	mu      sync.Mutex
	msgs    chan protocol.BusMessage
	filter  map[string]bool // nil means every type passes
	timeout time.Duration
	seqnum  uint64
	done    chan struct{}
	closed  bool
}

func newBus() *bus {
	return &bus{
		msgs:    make(chan protocol.BusMessage, busCapacity),
		timeout: 0, // non-blocking until bus_timeout is set
		done:    make(chan struct{}),
	}
}

// close releases every blocked reader. Called on pipeline delete and on
// daemon shutdown; closing twice is safe.
func (b *bus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

// post enqueues a message, dropping the oldest queued one when full.
func (b *bus) post(msgType, source, text string) {
	b.mu.Lock()
	b.seqnum++
	msg := protocol.BusMessage{
		Type:    msgType,
		Source:  source,
		Seqnum:  b.seqnum,
		Message: text,
	}
	b.mu.Unlock()

	for {
		select {
		case b.msgs <- msg:
			return
		default:
			select {
			case <-b.msgs:
			default:
			}
		}
	}
}

// setFilter replaces the type filter. Types are comma separated; an empty
// filter string clears filtering.
func (b *bus) setFilter(types []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(types) == 0 {
		b.filter = nil
		return
	}
	b.filter = make(map[string]bool, len(types))
	for _, t := range types {
		b.filter[t] = true
	}
}

func (b *bus) setTimeout(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeout = d
}

func (b *bus) passes(msg protocol.BusMessage) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter == nil || b.filter[msg.Type]
}

// read returns the next message matching the filter, or nil once the
// configured timeout elapses or the bus is closed. Messages rejected by the
// filter are discarded. A negative timeout waits until a message arrives or
// the bus closes, so blocked readers never outlive their pipeline or the
// daemon.
func (b *bus) read() *protocol.BusMessage {
	b.mu.Lock()
	timeout := b.timeout
	b.mu.Unlock()

	// Already queued messages are delivered without racing the timer, so a
	// zero timeout behaves as a reliable non-blocking poll.
drain:
	for {
		select {
		case msg := <-b.msgs:
			if b.passes(msg) {
				return &msg
			}
		default:
			break drain
		}
	}
	if timeout == 0 {
		return nil
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case msg := <-b.msgs:
			if b.passes(msg) {
				return &msg
			}
		case <-expired:
			return nil
		case <-b.done:
			return nil
		}
	}
}

// drain discards every queued message. Used by flush-stop.
func (b *bus) drain() {
	for {
		select {
		case <-b.msgs:
		default:
			return
		}
	}
}
