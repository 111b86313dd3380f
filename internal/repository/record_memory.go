package repository

import (
	"sync"

	"github.com/sdgmon/portal-go/internal/domain/record"
	"gorm.io/gorm"
)

// MemoryRecordRepo is the process-local fallback tier: a plain slice that
// lives only as long as the running process and is never shared across
// instances. The mutex protects slice integrity under concurrent handlers,
// nothing more — the store still has last-write-wins semantics.
type MemoryRecordRepo struct {
	mu      sync.Mutex
	records []record.Record
}

func NewMemoryRecordRepo() *MemoryRecordRepo {
	return &MemoryRecordRepo{}
}

func (r *MemoryRecordRepo) Put(rec *record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

func (r *MemoryRecordRepo) GetAll() ([]record.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]record.Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *MemoryRecordRepo) FindByID(id string) ([]record.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []record.Record
	for _, rec := range r.records {
		if rec.IndicatorID == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MemoryRecordRepo) UpdateByIDAndTimestamp(id, savedAt string, apply func(*record.Record)) (*record.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.records {
		if r.records[i].IndicatorID == id && r.records[i].SavedAt == savedAt {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = r.mostRecentIndexLocked(id)
	}
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	return r.applyLocked(idx, apply), nil
}

func (r *MemoryRecordRepo) UpdateMostRecentByID(id string, apply func(*record.Record)) (*record.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.mostRecentIndexLocked(id)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	return r.applyLocked(idx, apply), nil
}

func (r *MemoryRecordRepo) mostRecentIndexLocked(id string) int {
	idx := -1
	for i := range r.records {
		if r.records[i].IndicatorID != id {
			continue
		}
		if idx < 0 || r.records[i].NewerThan(r.records[idx]) {
			idx = i
		}
	}
	return idx
}

func (r *MemoryRecordRepo) applyLocked(idx int, apply func(*record.Record)) *record.Record {
	rec := r.records[idx]
	apply(&rec)
	r.records[idx] = rec
	out := rec
	return &out
}

// WithTx is a no-op: the memory tier has no transactions.
func (r *MemoryRecordRepo) WithTx(tx *gorm.DB) RecordRepo {
	return r
}
