package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushAndDrainPreservesArrivalOrder(t *testing.T) {
	q := New[int]()

	for i := 0; i < 10; i++ {
		q.Push(i)
	}

	items := q.DrainAll()
	require.Len(t, items, 10)
	for i, item := range items {
		assert.Equal(t, i, item)
	}
}

func TestQueue_DrainAllEmptiesQueue(t *testing.T) {
	q := New[string]()
	q.Push("a")
	q.Push("b")

	assert.Equal(t, 2, q.Len())
	assert.Len(t, q.DrainAll(), 2)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.DrainAll())
}

func TestQueue_DrainOnEmptyQueueReturnsNil(t *testing.T) {
	q := New[int]()
	assert.Nil(t, q.DrainAll())
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const producers = 50
	const perProducer = 200

	q := New[int]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, q.Len())
	assert.Len(t, q.DrainAll(), producers*perProducer)
}

func TestQueue_PushDuringDrainLandsInNextDrain(t *testing.T) {
	q := New[int]()
	q.Push(1)

	first := q.DrainAll()
	q.Push(2)
	second := q.DrainAll()

	require.Equal(t, []int{1}, first)
	require.Equal(t, []int{2}, second)
}
