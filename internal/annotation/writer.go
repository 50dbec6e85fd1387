package annotation

import (
	"context"
	"errors"
	"sync"
)

// ErrWriterClosed is returned for writes submitted after Close.
var ErrWriterClosed = errors.New("annotation writer closed")

// Write is the outcome of one queued Put. Usage is the project's label usage
// as of this write.
type Write struct {
	Seq        uint64
	Annotation Annotation
	Usage      map[string]int
	Err        error
}

type writeReq struct {
	seq   uint64
	a     Annotation
	reply chan Write
}

// Writer applies Puts on a single goroutine in submission order, so the last
// selection submitted for a segment is the one stored.
type Writer struct {
	ctx   context.Context
	store *Store

	mu     sync.Mutex
	seq    uint64
	closed bool
	queue  chan writeReq
	done   chan struct{}
}

// NewWriter starts a writer over store. Writes use ctx.
func NewWriter(ctx context.Context, store *Store) *Writer {
	w := &Writer{
		ctx:   ctx,
		store: store,
		queue: make(chan writeReq, 256),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues a and returns a channel that receives its result once the
// write and every write submitted before it have been applied.
func (w *Writer) Submit(a Annotation) <-chan Write {
	reply := make(chan Write, 1)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		reply <- Write{Annotation: a, Err: ErrWriterClosed}
		return reply
	}
	w.seq++
	w.queue <- writeReq{seq: w.seq, a: a, reply: reply}
	return reply
}

// Close stops accepting writes and waits for queued ones to finish.
func (w *Writer) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for req := range w.queue {
		res := Write{Seq: req.seq, Annotation: req.a}
		if err := w.store.Put(w.ctx, req.a); err != nil {
			res.Err = err
		} else {
			res.Usage, res.Err = w.store.LabelUsage(w.ctx, req.a.Project)
		}
		req.reply <- res
	}
}
