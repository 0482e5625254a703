package engine

import "time"

// FrameID identifies a requested frame so it can be cancelled.
type FrameID uint64

// FrameFunc runs one frame at host time now.
type FrameFunc func(now time.Duration)

// Scheduler delivers frame callbacks. Hosts own the clock; the engine only
// ever has one frame outstanding.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

// ManualScheduler queues frame requests until the host calls Tick.
// The zero value is ready to use. It is not safe for concurrent use.
type ManualScheduler struct {
	next  FrameID
	queue []request
}

type request struct {
	id FrameID
	fn FrameFunc
}

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestFrame queues fn for the next Tick.
func (s *ManualScheduler) RequestFrame(fn FrameFunc) FrameID {
	s.next++
	s.queue = append(s.queue, request{id: s.next, fn: fn})
	return s.next
}

// CancelFrame drops a queued request. Unknown ids are ignored.
func (s *ManualScheduler) CancelFrame(id FrameID) {
	for i, r := range s.queue {
		if r.id == id {
			s.queue = append(s.queue[:i:i], s.queue[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued requests.
func (s *ManualScheduler) Pending() int {
	return len(s.queue)
}

// Tick runs every request queued before the call. Requests made while
// ticking wait for the next Tick. It returns the number of callbacks run.
func (s *ManualScheduler) Tick(now time.Duration) int {
	q := s.queue
	s.queue = nil
	for _, r := range q {
		r.fn(now)
	}
	return len(q)
}
