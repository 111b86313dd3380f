package repository

import (
	"errors"

	"github.com/sdgmon/portal-go/internal/domain/record"
	"gorm.io/gorm"
)

// ErrRecordNotFound is returned by record lookups regardless of the backing
// tier, so callers never branch on gorm internals.
var ErrRecordNotFound = errors.New("record not found")

// RecordRepo is the version-log contract over submission records. A plain id
// resolves to a history of versions; updates either hit the exact
// (id, saved_at) composite key or fall back to the most recent version
// sharing the id. Patches are apply-functions so either the whole patched row
// is written or nothing is.
type RecordRepo interface {
	Put(rec *record.Record) error
	GetAll() ([]record.Record, error)
	FindByID(id string) ([]record.Record, error)
	UpdateByIDAndTimestamp(id, savedAt string, apply func(*record.Record)) (*record.Record, error)
	UpdateMostRecentByID(id string, apply func(*record.Record)) (*record.Record, error)
	WithTx(tx *gorm.DB) RecordRepo
}

// DBRecordRepo is the primary tier, backed by the relational database.
type DBRecordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) *DBRecordRepo {
	return &DBRecordRepo{db: db}
}

func (r *DBRecordRepo) Put(rec *record.Record) error {
	return r.db.Create(rec).Error
}

func (r *DBRecordRepo) GetAll() ([]record.Record, error) {
	var records []record.Record
	if err := r.db.Order("saved_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *DBRecordRepo) FindByID(id string) ([]record.Record, error) {
	var records []record.Record
	if err := r.db.Where("indicator_id = ?", id).Order("saved_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *DBRecordRepo) UpdateByIDAndTimestamp(id, savedAt string, apply func(*record.Record)) (*record.Record, error) {
	var rec record.Record
	err := r.db.Where("indicator_id = ? AND saved_at = ?", id, savedAt).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No exact composite match: fall back to the most recent version
		// sharing the id. A heuristic, not an exact-match update.
		return r.UpdateMostRecentByID(id, apply)
	}
	if err != nil {
		return nil, err
	}
	apply(&rec)
	if err := r.db.Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *DBRecordRepo) UpdateMostRecentByID(id string, apply func(*record.Record)) (*record.Record, error) {
	var rec record.Record
	err := r.db.Where("indicator_id = ?", id).Order("saved_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	apply(&rec)
	if err := r.db.Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *DBRecordRepo) WithTx(tx *gorm.DB) RecordRepo {
	if tx == nil {
		return r
	}
	return &DBRecordRepo{db: tx}
}
