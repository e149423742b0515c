package ledger

import "sync"

type lockEntry struct {
	sync.RWMutex
	refs int
}

// Locks 按键分配的读写锁，最后一个持有者释放后回收。零值可用。
type Locks[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*lockEntry
}

func (l *Locks[K]) acquire(key K) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.entries == nil {
		l.entries = make(map[K]*lockEntry)
	}
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locks[K]) release(key K, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Lock 获取写锁，返回解锁函数
func (l *Locks[K]) Lock(key K) func() {
	e := l.acquire(key)
	e.Lock()
	return func() {
		e.Unlock()
		l.release(key, e)
	}
}

// RLock 获取读锁，返回解锁函数
func (l *Locks[K]) RLock(key K) func() {
	e := l.acquire(key)
	e.RLock()
	return func() {
		e.RUnlock()
		l.release(key, e)
	}
}

// Len 当前仍有持有者或等待者的键数量
func (l *Locks[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
