// Package inmemdb provides in-memory repository implementations used as test
// fixtures; they mirror the semantics of the sqlx repositories, including
// upsert last-write-wins on attendance and fee cells.
package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/place"
	"github.com/trezcool/shule/core/student"
)

type DB struct {
	mutex sync.RWMutex

	places   map[string]*place.Place
	batches  map[string]*batch.Batch
	students map[string]*student.Student

	attendance map[string][]attendance.Record             // studentID -> history, day-ordered
	fees       map[string]map[string]attendance.FeeStatus // studentID -> month key -> status
	feeOrder   map[string][]string                        // studentID -> month keys in insertion order
}

func NewDB() *DB {
	return &DB{
		places:     make(map[string]*place.Place),
		batches:    make(map[string]*batch.Batch),
		students:   make(map[string]*student.Student),
		attendance: make(map[string][]attendance.Record),
		fees:       make(map[string]map[string]attendance.FeeStatus),
		feeOrder:   make(map[string][]string),
	}
}
