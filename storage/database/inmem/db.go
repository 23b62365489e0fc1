// Package inmemdb provides mutex-guarded in-memory repositories used by
// tests in place of postgres.
package inmemdb

import (
	"sync"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/event"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users    map[string]*user.User
	editions map[string]*program.Edition
	days     map[string]*roadmap.Day
	events   map[string]*event.Event
}

func NewDB() *DB {
	return &DB{
		users:    make(map[string]*user.User),
		editions: make(map[string]*program.Edition),
		days:     make(map[string]*roadmap.Day),
		events:   make(map[string]*event.Event),
	}
}
