package repository

import (
	"log"

	"github.com/sdgmon/portal-go/internal/domain/record"
	"gorm.io/gorm"
)

// FallbackRecordRepo chains a primary tier with a fallback tier. Persistence
// failures on the primary are absorbed and logged, never surfaced, as long as
// the fallback can take the write. Reads always consult both tiers and merge
// by recency, so a record written during an outage stays visible.
type FallbackRecordRepo struct {
	primary  RecordRepo
	fallback RecordRepo
}

func NewFallbackRecordRepo(primary, fallback RecordRepo) *FallbackRecordRepo {
	return &FallbackRecordRepo{primary: primary, fallback: fallback}
}

func (r *FallbackRecordRepo) Put(rec *record.Record) error {
	if err := r.primary.Put(rec); err != nil {
		log.Printf("record store: primary put failed, using fallback tier: %v", err)
		return r.fallback.Put(rec)
	}
	return nil
}

func (r *FallbackRecordRepo) GetAll() ([]record.Record, error) {
	combined, err := r.primary.GetAll()
	if err != nil {
		log.Printf("record store: primary read failed, serving fallback tier only: %v", err)
		combined = nil
	}

	// The fallback tier is always consulted: records written during a
	// primary outage must stay visible after the primary recovers.
	fromFallback, err := r.fallback.GetAll()
	if err != nil {
		return nil, err
	}
	combined = append(combined, fromFallback...)

	return record.Reconcile(combined), nil
}

// FindByID returns the raw version history across both tiers, without the
// per-id dedup GetAll applies. Transition lookups need every version to find
// the one in the expected predecessor status.
func (r *FallbackRecordRepo) FindByID(id string) ([]record.Record, error) {
	combined, err := r.primary.FindByID(id)
	if err != nil {
		log.Printf("record store: primary read failed, serving fallback tier only: %v", err)
		combined = nil
	}

	fromFallback, err := r.fallback.FindByID(id)
	if err != nil {
		return nil, err
	}
	return append(combined, fromFallback...), nil
}

// UpdateByIDAndTimestamp patches the tier that actually holds the exact
// (id, saved_at) version. Routing by tier matters: letting the primary's own
// most-recent heuristic run first would patch an unrelated older row there
// while the real version, written to the fallback during an outage, stays
// untouched. The heuristic only applies once no tier has an exact match.
func (r *FallbackRecordRepo) UpdateByIDAndTimestamp(id, savedAt string, apply func(*record.Record)) (*record.Record, error) {
	fromPrimary, err := r.primary.FindByID(id)
	if err != nil {
		log.Printf("record store: primary read failed, trying fallback tier: %v", err)
		return r.fallback.UpdateByIDAndTimestamp(id, savedAt, apply)
	}
	if hasVersion(fromPrimary, savedAt) {
		return r.primary.UpdateByIDAndTimestamp(id, savedAt, apply)
	}

	fromFallback, err := r.fallback.FindByID(id)
	if err != nil {
		return nil, err
	}
	if hasVersion(fromFallback, savedAt) {
		return r.fallback.UpdateByIDAndTimestamp(id, savedAt, apply)
	}

	return r.updateMostRecent(id, fromPrimary, fromFallback, apply)
}

func (r *FallbackRecordRepo) UpdateMostRecentByID(id string, apply func(*record.Record)) (*record.Record, error) {
	fromPrimary, err := r.primary.FindByID(id)
	if err != nil {
		log.Printf("record store: primary read failed, trying fallback tier: %v", err)
		return r.fallback.UpdateMostRecentByID(id, apply)
	}
	fromFallback, err := r.fallback.FindByID(id)
	if err != nil {
		return nil, err
	}
	return r.updateMostRecent(id, fromPrimary, fromFallback, apply)
}

// updateMostRecent patches the newest version for the id in whichever tier
// holds it.
func (r *FallbackRecordRepo) updateMostRecent(id string, fromPrimary, fromFallback []record.Record, apply func(*record.Record)) (*record.Record, error) {
	primaryLatest := record.Latest(fromPrimary)
	fallbackLatest := record.Latest(fromFallback)
	switch {
	case primaryLatest == nil && fallbackLatest == nil:
		return nil, ErrRecordNotFound
	case primaryLatest == nil:
		return r.fallback.UpdateMostRecentByID(id, apply)
	case fallbackLatest != nil && fallbackLatest.NewerThan(*primaryLatest):
		return r.fallback.UpdateMostRecentByID(id, apply)
	default:
		return r.primary.UpdateMostRecentByID(id, apply)
	}
}

func hasVersion(history []record.Record, savedAt string) bool {
	for _, rec := range history {
		if rec.SavedAt == savedAt {
			return true
		}
	}
	return false
}

func (r *FallbackRecordRepo) WithTx(tx *gorm.DB) RecordRepo {
	if tx == nil {
		return r
	}
	return &FallbackRecordRepo{
		primary:  r.primary.WithTx(tx),
		fallback: r.fallback,
	}
}
