package app

import "github.com/dkeye/Meet/internal/domain"

// History is a per-room chat log in append order.
// With limit <= 0 it grows without bound; otherwise it is a fixed-size
// circular buffer that overwrites the oldest message when full.
// Not safe for concurrent use; the Registry guards it.
type History struct {
	data  []domain.ChatMessage
	head  int // next write position, ring mode only
	size  int
	limit int
}

func NewHistory(limit int) *History {
	h := &History{limit: limit}
	if limit > 0 {
		h.data = make([]domain.ChatMessage, limit)
	}
	return h
}

func (h *History) Append(msg domain.ChatMessage) {
	if h.limit <= 0 {
		h.data = append(h.data, msg)
		h.size++
		return
	}
	h.data[h.head] = msg
	h.head = (h.head + 1) % h.limit
	if h.size < h.limit {
		h.size++
	}
}

// Replay returns a snapshot, oldest first. Later appends do not affect it.
func (h *History) Replay() []domain.ChatMessage {
	if h.size == 0 {
		return nil
	}
	out := make([]domain.ChatMessage, h.size)
	if h.limit <= 0 || h.size < h.limit {
		copy(out, h.data[:h.size])
		return out
	}
	// full ring: head points at the oldest element
	n := copy(out, h.data[h.head:])
	copy(out[n:], h.data[:h.head])
	return out
}

func (h *History) Len() int { return h.size }
