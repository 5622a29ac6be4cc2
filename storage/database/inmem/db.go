package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-portal/core/profile"
)

type (
	DB struct {
		profile *profileTable
	}

	profileTable struct {
		sync.RWMutex
		table map[string]*profile.Profile
	}
)

func Open() *DB {
	return &DB{
		profile: &profileTable{table: make(map[string]*profile.Profile)},
	}
}
