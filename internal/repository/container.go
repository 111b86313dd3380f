package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	Record RecordRepo
	User   UserRepo
	Audit  AuditRepo

	db *gorm.DB
}

// NewRepositories wires the default store composition: a database-backed
// primary tier with the process-local memory tier behind it.
func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Record: NewFallbackRecordRepo(NewRecordRepo(db), NewMemoryRecordRepo()),
		User:   NewUserRepo(db),
		Audit:  NewAuditRepo(db),
		db:     db,
	}
}

func (r *Repos) Begin() *gorm.DB {
	return r.db.Begin()
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Record: r.Record.WithTx(tx),
		User:   r.User.WithTx(tx),
		Audit:  r.Audit.WithTx(tx),
		db:     tx,
	}
}

func (r *Repos) ExecTx(fn func(*Repos) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepos := r.WithTx(tx)
		return fn(txRepos)
	})
}
