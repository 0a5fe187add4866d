package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_DrainRunsInOrder(t *testing.T) {
	l := New()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}

	assert.Equal(t, 5, l.Pending())
	assert.Equal(t, 5, l.Drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_PostFromTaskRunsInSameDrain(t *testing.T) {
	l := New()
	var got []string
	l.Post(func() {
		got = append(got, "outer")
		l.Post(func() { got = append(got, "inner") })
	})

	assert.Equal(t, 2, l.Drain())
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestLoop_NilTaskIgnored(t *testing.T) {
	l := New()
	l.Post(nil)
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_PostAfterCloseDropped(t *testing.T) {
	l := New()
	l.Close()
	l.Post(func() { t.Fatal("task ran after close") })
	assert.Equal(t, 0, l.Drain())
}

func TestLoop_RunAndCall(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Run(ctx)
	}()

	counter := 0
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Call(ctx, func() { counter++ }))
	}
	assert.Equal(t, 10, counter)

	cancel()
	wg.Wait()
}

func TestLoop_RunReturnsOnClose(t *testing.T) {
	l := New()
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(context.Background()) }()

	l.Close()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrClosed)
}
