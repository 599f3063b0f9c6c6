package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoDeliversOnLoop(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		Go(l, func() int { return i * 10 }, func(v int) { got = append(got, v) })
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.RunUntilIdle(ctx))

	assert.ElementsMatch(t, []int{10, 20, 30}, got)
	assert.Zero(t, l.Pending())
}

func TestRunUntilIdleDrainsPosted(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	ran := false
	l.Post(func() { ran = true })
	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.True(t, ran)
}

func TestRunUntilIdleHonoursContext(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	block := make(chan struct{})
	defer close(block)
	Go(l, func() struct{} { <-block; return struct{}{} }, func(struct{}) {})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.RunUntilIdle(ctx), context.DeadlineExceeded)
}

func TestPostAfterCloseIsDropped(t *testing.T) {
	l := NewLoop()
	l.Close()
	l.Close()

	var n atomic.Int32
	for i := 0; i < 100; i++ {
		l.Post(func() { n.Add(1) })
	}
	assert.Zero(t, n.Load())
}

func TestRunStopsOnCancel(t *testing.T) {
	l := NewLoop()
	defer l.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
