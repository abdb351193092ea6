package advisor

import (
	"sync"

	"github.com/aristath/advisor/internal/domain"
)

// MemoryHistory is the default in-memory history store: an append-only,
// insertion-ordered list scoped to the process lifetime. Growth is unbounded -
// a documented limitation of the service, not something this store caps.
//
// Appends are mutex-serialized so concurrent requests never interleave, and
// reads return deep copies so a snapshot never reflects later appends.
type MemoryHistory struct {
	mu      sync.Mutex
	records []domain.AdviceRecord
}

// NewMemoryHistory creates an empty in-memory history store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Append stores a fully assembled record at the end of the history.
func (h *MemoryHistory) Append(record domain.AdviceRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record.Clone())
	return nil
}

// ListAll returns a snapshot of all records in insertion order.
func (h *MemoryHistory) ListAll() ([]domain.AdviceRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.AdviceRecord, len(h.records))
	for i, r := range h.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Clear removes all records. Used for test isolation and the ops endpoint.
func (h *MemoryHistory) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return nil
}
