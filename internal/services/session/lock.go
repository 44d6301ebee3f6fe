package session

import (
	"sync"

	"github.com/edugame/quizroom/internal/model"
)

// keyedLocks serializes mutations per session code. Join, remove, start
// and end are read-modify-write against a shared record; without this,
// concurrent joins could race-overwrite each other and lose a seat.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[model.SessionCode]*codeLock
}

type codeLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[model.SessionCode]*codeLock)}
}

// lock acquires the mutex for a code and returns the unlock function.
// Lock entries are reference-counted so the map does not grow with every
// session ever seen.
func (k *keyedLocks) lock(code model.SessionCode) func() {
	k.mu.Lock()
	l, ok := k.locks[code]
	if !ok {
		l = &codeLock{}
		k.locks[code] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, code)
		}
		k.mu.Unlock()
	}
}
