package locker

import "sync"

// Locker keeps the process logs currently held by a worker of this instance.
type Locker struct {
	mu           sync.Mutex
	inProcessMap map[int64]bool
}

func New() *Locker {
	return &Locker{
		inProcessMap: make(map[int64]bool),
	}
}

// TryAcquire marks logID as held and reports whether it was free.
func (l *Locker) TryAcquire(logID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inProcessMap[logID] {
		return false
	}
	l.inProcessMap[logID] = true
	return true
}

func (l *Locker) Unlock(logID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inProcessMap, logID)
}
