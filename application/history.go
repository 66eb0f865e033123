package application

import (
	"sync"

	"lighthousebot/domain"
)

// History は処理済みターンの記録を保持するリングバッファです。
// サイズ0の History は何も記録しません。
type History struct {
	mu      sync.Mutex
	records []domain.TurnRecord
	next    int
	full    bool
}

func NewHistory(size int) *History {
	if size < 0 {
		size = 0
	}
	return &History{records: make([]domain.TurnRecord, size)}
}

func (h *History) Record(rec domain.TurnRecord) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.records) == 0 {
		return
	}
	h.records[h.next] = rec
	h.next = (h.next + 1) % len(h.records)
	if h.next == 0 {
		h.full = true
	}
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.full {
		return len(h.records)
	}
	return h.next
}

// Snapshot は保持している記録を古い順に返します。
func (h *History) Snapshot() []domain.TurnRecord {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.full {
		out := make([]domain.TurnRecord, h.next)
		copy(out, h.records[:h.next])
		return out
	}
	out := make([]domain.TurnRecord, 0, len(h.records))
	out = append(out, h.records[h.next:]...)
	out = append(out, h.records[:h.next]...)
	return out
}
