package anim

import (
	"encoding/json"
	"time"
)

// Queue is a FIFO of descriptors. It is not safe for concurrent use; the
// engine that owns it is single-threaded.
type Queue struct {
	items []Descriptor
	// pending is the summed wait of critical descriptors pushed since the
	// last TakeWait.
	pending time.Duration
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends d and accumulates its wait.
func (q *Queue) Push(d Descriptor) {
	q.items = append(q.items, d)
	q.pending += d.Wait()
}

// Drain removes and returns every queued descriptor in emission order.
func (q *Queue) Drain() []Descriptor {
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	return len(q.items)
}

// TakeWait returns the accumulated critical wait and resets it.
func (q *Queue) TakeWait() time.Duration {
	w := q.pending
	q.pending = 0
	return w
}

// Envelope is the tagged wire form of a descriptor.
type Envelope struct {
	Kind     Kind       `json:"kind"`
	Critical bool       `json:"critical"`
	Data     Descriptor `json:"data"`
}

// Wrap tags each descriptor with its kind.
func Wrap(ds []Descriptor) []Envelope {
	out := make([]Envelope, len(ds))
	for i, d := range ds {
		out[i] = Envelope{Kind: d.Kind(), Critical: d.Kind().Critical(), Data: d}
	}
	return out
}

// Encode marshals descriptors as a JSON array of envelopes.
func Encode(ds []Descriptor) ([]byte, error) {
	return json.Marshal(Wrap(ds))
}
