package formz

import "sync"

// triggerBuffer is the per-subscriber channel capacity. Delivery is
// non-blocking: a subscriber that falls this far behind sheds its oldest
// buffered events rather than stalling the emitter.
const triggerBuffer = 64

// stream is a broadcast channel for one trigger kind. Emitters and
// subscribers are decoupled: any number of pipelines may subscribe, and a
// subscriber arriving late immediately receives the most recent event.
type stream[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	last   *T
	closed bool
}

func newStream[T any]() *stream[T] {
	return &stream[T]{subs: make(map[int]chan T)}
}

// emit broadcasts an event to every subscriber and records it for replay.
// A full subscriber sheds its oldest buffered event to make room, so the
// newest event always survives a burst.
func (s *stream[T]) emit(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.last = &v
	for _, ch := range s.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// subscribe registers a new consumer and returns its channel plus a cancel
// function. The most recent event, if any, is replayed immediately.
func (s *stream[T]) subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, triggerBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if s.last != nil {
		ch <- *s.last
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

// close shuts the stream down. Subscriber channels are closed and later
// emits are dropped.
func (s *stream[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.last = nil
}
