package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocksExcludeWriters(t *testing.T) {
	var locks Locks[string]
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("k")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Equal(t, 0, locks.Len())
}

func TestLocksAreReclaimedAfterRelease(t *testing.T) {
	var locks Locks[int]
	unlockA := locks.RLock(1)
	unlockB := locks.RLock(1)
	unlockC := locks.Lock(2)
	assert.Equal(t, 2, locks.Len())

	unlockA()
	assert.Equal(t, 2, locks.Len())
	unlockB()
	unlockC()
	assert.Equal(t, 0, locks.Len())
}
