package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("drive.mode", "arcade"))
	require.NoError(t, store.Set("drive.mode", "tank"))

	val, ok := store.Get("drive.mode")
	assert.True(t, ok)
	assert.Equal(t, "tank", val)

	_, ok = store.Get("drive.missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("drive.mode", "arcade")
	_ = store.Set("drive.turn_gain", 0.75)

	assert.Equal(t, "arcade", store.GetString("drive.mode"))
	assert.Equal(t, "", store.GetString("drive.turn_gain"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("a", 5)
	_ = store.Set("b", int64(6))
	_ = store.Set("c", 7.9)
	_ = store.Set("d", "8")

	assert.Equal(t, 5, store.GetInt("a"))
	assert.Equal(t, 6, store.GetInt("b"))
	assert.Equal(t, 7, store.GetInt("c"))
	assert.Equal(t, 0, store.GetInt("d"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("drive.turn_gain", 0.75)
	_ = store.Set("drive.straight_gain", int64(1))
	_ = store.Set("int", 2)
	_ = store.Set("f32", float32(0.5))
	_ = store.Set("str", "0.5")

	assert.Equal(t, 0.75, store.GetFloat("drive.turn_gain"))
	assert.Equal(t, 1.0, store.GetFloat("drive.straight_gain"))
	assert.Equal(t, 2.0, store.GetFloat("int"))
	assert.Equal(t, 0.5, store.GetFloat("f32"))
	assert.Equal(t, 0.0, store.GetFloat("str"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
}

func TestConfigStore_SaveLoadNoOp(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("k", "v")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key_%d_%d", id, j)
				_ = store.Set(key, j)
				_ = store.GetInt(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 99, store.GetInt("key_9_99"))
}
