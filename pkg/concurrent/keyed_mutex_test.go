package concurrent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	a, b := 0, 0
	counter := map[string]*int{"a": &a, "b": &b}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				unlock := km.Lock(key)
				defer unlock()
				// read-modify-write without any other synchronization
				v := *counter[key]
				*counter[key] = v + 1
			}(key)
		}
	}
	wg.Wait()

	assert.Equal(t, 50, a)
	assert.Equal(t, 50, b)
	assert.Equal(t, 0, km.Len())
}
