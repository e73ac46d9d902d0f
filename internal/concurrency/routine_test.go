package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeGo_RunsAndWaits(t *testing.T) {
	var wg sync.WaitGroup
	var n int32
	for i := 0; i < 5; i++ {
		SafeGo(context.Background(), &wg, "count", func() { atomic.AddInt32(&n, 1) }, nil)
	}
	wg.Wait()
	assert.Equal(t, int32(5), n)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	var recovered interface{}
	SafeGo(context.Background(), &wg, "explode", func() { panic("boom") }, func(r interface{}) { recovered = r })
	wg.Wait()
	assert.Equal(t, "boom", recovered)
}
