package channel_helper

// EnqueueLatest delivers v to ch without ever blocking the producer. When the
// channel is full the oldest queued element is discarded to make room, so
// consumers that fall behind always see the freshest data. Returns true when
// an element was dropped.
func EnqueueLatest[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return false
	default:
	}

	dropped := false
	select {
	case <-ch:
		dropped = true
	default:
	}

	select {
	case ch <- v:
	default:
	}
	return dropped
}
