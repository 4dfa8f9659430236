package terminal

import (
	"sync"
	"sync/atomic"
)

// outboxSize is the number of output chunks a view may lag behind the
// session before new chunks are dropped.
const outboxSize = 256

// outbox moves output from the session read loop to a drawable on its own
// goroutine. push never blocks: a full queue drops the chunk.
type outbox struct {
	drawable Drawable
	queue    chan []byte
	exit     chan int
	stop     chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	dropped   atomic.Uint64
}

func newOutbox(d Drawable, size int) *outbox {
	return &outbox{
		drawable: d,
		queue:    make(chan []byte, size),
		exit:     make(chan int, 1),
		stop:     make(chan struct{}),
	}
}

// push queues p and reports whether it was accepted.
func (o *outbox) push(p []byte) bool {
	o.startOnce.Do(o.start)
	select {
	case o.queue <- p:
		return true
	default:
		o.dropped.Add(1)
		return false
	}
}

// exited delivers code after the output already queued.
func (o *outbox) exited(code int) {
	o.startOnce.Do(o.start)
	select {
	case o.exit <- code:
	default:
	}
}

func (o *outbox) start() { go o.run() }

func (o *outbox) close() {
	o.stopOnce.Do(func() { close(o.stop) })
}

func (o *outbox) run() {
	for {
		select {
		case <-o.stop:
			return
		case p := <-o.queue:
			o.drawable.Draw(p)
		case code := <-o.exit:
			o.flush()
			o.drawable.Exited(code)
		}
	}
}

func (o *outbox) flush() {
	for {
		select {
		case p := <-o.queue:
			o.drawable.Draw(p)
		default:
			return
		}
	}
}
