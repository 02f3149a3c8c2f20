package replay

import (
	"context"
	"sort"
	"sync"

	"github.com/peterkuimelis/cardclash/internal/errors"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryRepository keeps records in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[string]*Record)}
}

var _ Repository = (*memoryRepository)(nil)

func (m *memoryRepository) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.InvalidArgument(errRecordNil)
	}
	if rec.ID == "" {
		return errors.InvalidArgument(errIDEmpty)
	}
	cp := *rec
	cp.Events = append(cp.Events[:0:0], rec.Events...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = &cp
	return nil
}

func (m *memoryRepository) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, errors.NotFoundf("replay %s not found", id)
	}
	cp := *rec
	cp.Events = append(cp.Events[:0:0], rec.Events...)
	return &cp, nil
}

func (m *memoryRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	m.mu.RLock()
	out := make([]Summary, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec.Summary())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].FinishedAt.After(out[j].FinishedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
