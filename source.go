package formz

import "context"

// Source supplies the form's value tree from outside the process: a draft
// file, a server-rendered prefill, a test harness. Implementations must emit
// the current raw bytes immediately upon Watch() being called so that Start
// can seed initial values, and may keep emitting as the source changes.
//
// Bytes are decoded into a Values tree by the Form's configured Codec.
type Source interface {
	// Watch begins observing the source and returns a channel emitting raw
	// bytes. The channel is closed when the context is canceled or an
	// unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan []byte, error)
}

// ChannelSource adapts an existing byte channel into a Source. Useful for
// tests and for callers that already produce serialized values.
type ChannelSource struct {
	ch     <-chan []byte
	direct bool
}

// NewChannelSource creates a ChannelSource that forwards values from the
// given channel through an internal goroutine.
func NewChannelSource(ch <-chan []byte) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// NewSyncChannelSource creates a ChannelSource that hands the caller's
// channel out directly, with no intermediate goroutine. Pair with SyncMode()
// and ProcessSource() for deterministic testing.
func NewSyncChannelSource(ch <-chan []byte) *ChannelSource {
	return &ChannelSource{ch: ch, direct: true}
}

// Watch returns a channel emitting values from the wrapped channel.
func (s *ChannelSource) Watch(ctx context.Context) (<-chan []byte, error) {
	if s.direct {
		return s.ch, nil
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-s.ch:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
