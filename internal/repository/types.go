package repository

import "gorm.io/gorm"

type QueryOption func(*gorm.DB) *gorm.DB

func WithPreload(association string, conds ...interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(association, conds...)
	}
}

// CaseAggregate recomputed counters for one run, summed over its owned cases
type CaseAggregate struct {
	Total    int
	Failures int
	Errors   int
	Skipped  int
	Time     float64
}
