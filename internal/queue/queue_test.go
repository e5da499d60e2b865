package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushPop(t *testing.T) {
	q := New[string]()

	q.Push("a", "b")
	assert.Equal(t, 2, q.Len())

	assert.Equal(t, "a", q.Pop())
	assert.Equal(t, "b", q.Pop())
	assert.True(t, q.Empty())
}

func TestQueue_Pop_Empty(t *testing.T) {
	q := New[int]()
	assert.Equal(t, 0, q.Pop())
}

func TestQueue_GetAndEmpty(t *testing.T) {
	q := New[string]()

	q.Push("a", "b", "c")
	items := q.GetAndEmpty()

	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, items)
	assert.True(t, q.Empty())
}

func TestQueue_Filter(t *testing.T) {
	q := New[string]()

	q.Push("a", "b", "a", "c")
	q.Filter(func(s string) bool { return s != "a" })

	assert.Equal(t, []string{"b", "c"}, q.GetAndEmpty())
}

func TestQueue_Filter_Empty(t *testing.T) {
	q := New[int]()

	q.Filter(func(int) bool { return true })
	assert.True(t, q.Empty())
}

func TestQueue_Clear(t *testing.T) {
	q := New[int]()

	q.Push(1, 2, 3)
	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Push(i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, q.Len())
}
