package broadcast

import "sort"

// ReorderBuffer restores sequence order on the consumer side of a transport
// that may deliver events out of order.
//
// Push returns the events that became deliverable, in sequence order. An
// out-of-sequence event is withheld until the gap before it fills. The buffer
// is size-capped: when more than limit events are pending, everything is
// flushed in ascending sequence order and the missing events are given up on,
// so a permanently lost event cannot stall the stream forever.
//
// Not safe for concurrent use; each consumer owns one buffer.
type ReorderBuffer struct {
	next    uint64
	started bool
	pending map[uint64]Event
	limit   int
}

// NewReorderBuffer creates a buffer that withholds at most limit events.
func NewReorderBuffer(limit int) *ReorderBuffer {
	if limit < 1 {
		limit = 1
	}
	return &ReorderBuffer{
		pending: make(map[uint64]Event),
		limit:   limit,
	}
}

// Push accepts one received event and returns the events now deliverable.
// Duplicates and events older than the delivery cursor are dropped.
func (b *ReorderBuffer) Push(event Event) []Event {
	if !b.started {
		b.started = true
		b.next = event.Sequence
	}

	if event.Sequence < b.next {
		return nil
	}

	if event.Sequence == b.next {
		out := []Event{event}
		b.next++
		for {
			e, ok := b.pending[b.next]
			if !ok {
				break
			}
			delete(b.pending, b.next)
			out = append(out, e)
			b.next++
		}
		return out
	}

	b.pending[event.Sequence] = event
	if len(b.pending) > b.limit {
		return b.flush()
	}
	return nil
}

// flush empties the pending set in ascending sequence order and moves the
// cursor past the last flushed event.
func (b *ReorderBuffer) flush() []Event {
	seqs := make([]uint64, 0, len(b.pending))
	for seq := range b.pending {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

	out := make([]Event, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, b.pending[seq])
		delete(b.pending, seq)
	}
	b.next = seqs[len(seqs)-1] + 1
	return out
}
