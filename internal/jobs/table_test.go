package jobs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIndicesAreDense(t *testing.T) {
	tab := NewTable(StdStreams())
	for i, pid := range []int{100, 200, 300, 400} {
		idx, err := tab.Add(pid, "job")
		require.NoError(t, err)
		assert.Equal(t, i+1, idx)
	}

	idx, ok := tab.Remove(200)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	assert.Equal(t, []int{100, 300, 400}, tab.Pids())
	got, ok := tab.Lookup(400)
	require.True(t, ok)
	assert.Equal(t, 3, got)

	for i, j := range tab.Jobs() {
		assert.Equal(t, i+1, j.Index)
	}
}

func TestTableRemoveUnknown(t *testing.T) {
	tab := NewTable(StdStreams())
	_, _ = tab.Add(1, "a")
	_, ok := tab.Remove(2)
	assert.False(t, ok)
	assert.Equal(t, 1, tab.Len())

	_, ok = tab.Lookup(2)
	assert.False(t, ok)
}

func TestTablePopLast(t *testing.T) {
	tab := NewTable(StdStreams())
	_, ok := tab.PopLast()
	assert.False(t, ok)

	_, _ = tab.Add(10, "sleep 5")
	_, _ = tab.Add(20, "sleep 6")
	j, ok := tab.PopLast()
	require.True(t, ok)
	assert.Equal(t, Job{Index: 2, Pid: 20, Name: "sleep 6"}, j)
	assert.Equal(t, 1, tab.Len())
}

func TestTableCapacity(t *testing.T) {
	tab := NewTable(StdStreams())
	for i := 0; i < Capacity; i++ {
		_, err := tab.Add(i+1, "x")
		require.NoError(t, err)
	}
	_, err := tab.Add(Capacity+1, "x")
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestTableConcurrentMutation(t *testing.T) {
	tab := NewTable(StdStreams())
	var wg sync.WaitGroup
	for i := 1; i <= 200; i++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			_, _ = tab.Add(pid, "x")
			if pid%2 == 0 {
				tab.Remove(pid)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, tab.Len())
	for _, pid := range tab.Pids() {
		assert.Equal(t, 1, pid%2)
	}
}

func TestStreamsAreKept(t *testing.T) {
	s := StdStreams()
	tab := NewTable(s)
	assert.Equal(t, s, tab.Streams())
}
