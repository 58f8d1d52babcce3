// Package idgen issues process-unique, roughly time-ordered 64-bit ids in the
// Snowflake layout:
//
//	| 1 bit unused | 41 bits ms since Epoch | 10 bits node | 12 bits sequence |
//
// A Generator keeps only the last issued id in an atomic and advances it with
// compare-and-swap, so concurrent callers never queue behind a mutex. When
// the clock stalls, goes backwards, or a millisecond runs out of sequence
// numbers, the generator keeps counting forward from the last id instead of
// waiting for the wall clock, which keeps every id unique and strictly
// increasing for the lifetime of the generator.
package idgen

import (
	"sync/atomic"
	"time"
)

const (
	nodeBits     = 10
	sequenceBits = 12

	maxNode     = 1<<nodeBits - 1
	maxSequence = 1<<sequenceBits - 1

	nodeShift = sequenceBits
	timeShift = sequenceBits + nodeBits
)

// Epoch is the zero point of the timestamp field (2020-01-01T00:00:00Z).
var Epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// IDSource is what the rest of the server depends on.
type IDSource interface {
	Next() int64
}

// Generator is safe for concurrent use.
type Generator struct {
	last atomic.Int64
	node int64
	now  func() time.Time
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock replaces time.Now; used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a Generator for the given node id; only the low 10 bits are used.
func New(node int64, opts ...Option) *Generator {
	g := &Generator{node: node & maxNode, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a new id. It never blocks and never returns a duplicate.
func (g *Generator) Next() int64 {
	base := g.node << nodeShift
	for {
		last := g.last.Load()

		next := g.millis()<<timeShift | base
		if next <= last {
			if last&maxSequence < maxSequence {
				next = last + 1
			} else {
				// sequence exhausted: borrow the next millisecond
				next = (last>>timeShift+1)<<timeShift | base
			}
		}

		if g.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

func (g *Generator) millis() int64 {
	ms := g.now().Sub(Epoch).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// Timestamp decodes the creation time embedded in id.
func Timestamp(id int64) time.Time {
	return Epoch.Add(time.Duration(id>>timeShift) * time.Millisecond)
}

// Node decodes the node field of id.
func Node(id int64) int64 {
	return id >> nodeShift & maxNode
}

var defaultGenerator = New(0)

// Default returns the process-wide generator.
func Default() *Generator {
	return defaultGenerator
}

// Next draws an id from the process-wide generator.
func Next() int64 {
	return defaultGenerator.Next()
}
