package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerLocks_SerializesSameOwner(t *testing.T) {
	locks := newOwnerLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("owner-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestOwnerLocks_DifferentOwnersDoNotBlock(t *testing.T) {
	locks := newOwnerLocks()

	unlockA := locks.lock("owner-a")
	defer unlockA()

	// While owner-a is held, owner-b must still be acquirable.
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("owner-b")
		unlockB()
		close(done)
	}()
	<-done
}
