package main

import (
	"encoding/json"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephp/extension/internal/storage/memory"
	"github.com/zephp/extension/pkg/core"
	"github.com/zephp/extension/pkg/phpval"
	"github.com/zephp/extension/pkg/zendinterface"
)

// withMemoryBackend swaps in a fresh in-memory store for one test.
func withMemoryBackend(t *testing.T) {
	t.Helper()
	prev := storageBackend
	storageBackend = memory.New()
	t.Cleanup(func() { storageBackend = prev })
}

func TestKvSetThenGet(t *testing.T) {
	withMemoryBackend(t)

	rv := zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvSetEntity,
		Args:   []phpval.Value{phpval.String("greeting"), phpval.String("hello")},
	})
	require.Equal(t, phpval.KindBool, rv.Kind())
	assert.True(t, rv.Bool())

	rv = zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvGetEntity,
		Args:   []phpval.Value{phpval.String("greeting")},
	})
	require.Equal(t, phpval.KindString, rv.Kind())
	assert.Equal(t, "hello", rv.String())
}

func TestKvGet_MissingKeyReturnsNull(t *testing.T) {
	withMemoryBackend(t)

	rv := zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvGetEntity,
		Args:   []phpval.Value{phpval.String("missing")},
	})
	assert.True(t, rv.IsNull())
}

func TestKvGet_MissingKeyReturnsDefault(t *testing.T) {
	withMemoryBackend(t)

	rv := zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvGetEntity,
		Args:   []phpval.Value{phpval.String("missing"), phpval.String("fallback")},
	})
	require.Equal(t, phpval.KindString, rv.Kind())
	assert.Equal(t, "fallback", rv.String())
}

func TestKvSet_ValueTooLarge(t *testing.T) {
	withMemoryBackend(t)

	settings := Globals.Get()
	prev := settings.MaxValueSize
	settings.MaxValueSize = 4
	t.Cleanup(func() { settings.MaxValueSize = prev })

	rv := zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvSetEntity,
		Args:   []phpval.Value{phpval.String("k"), phpval.String("way too large")},
	})
	require.Equal(t, phpval.KindString, rv.Kind())
	assert.Contains(t, rv.String(), "phpkv.max_value_size")

	// The oversized write must not land.
	rv = zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvGetEntity,
		Args:   []phpval.Value{phpval.String("k")},
	})
	assert.True(t, rv.IsNull())
}

func TestKvDelete(t *testing.T) {
	withMemoryBackend(t)

	require.NoError(t, storageBackend.Set(core.Entry{Key: "k", Value: "v"}))

	rv := zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvDeleteEntity,
		Args:   []phpval.Value{phpval.String("k")},
	})
	require.Equal(t, phpval.KindBool, rv.Kind())
	assert.True(t, rv.Bool())

	_, found, err := storageBackend.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKvStats_ReturnsJSON(t *testing.T) {
	withMemoryBackend(t)

	require.NoError(t, storageBackend.Set(core.Entry{Key: "a", Value: "1"}))
	require.NoError(t, storageBackend.Set(core.Entry{Key: "b", Value: "2"}))

	rv := zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity: kvStatsEntity,
	})
	require.Equal(t, phpval.KindString, rv.Kind())

	var stats core.Stats
	require.NoError(t, json.Unmarshal([]byte(rv.String()), &stats))
	assert.Equal(t, int64(2), stats.Keys)
}

func TestKVStoreMethods(t *testing.T) {
	withMemoryBackend(t)

	receiver := unsafe.Pointer(uintptr(0xbeef))

	rv := zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity:   kvStoreSetEntity,
		Args:     []phpval.Value{phpval.String("k"), phpval.String("v")},
		Receiver: receiver,
	})
	require.Equal(t, phpval.KindBool, rv.Kind())
	assert.True(t, rv.Bool())

	rv = zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity:   kvStoreGetEntity,
		Args:     []phpval.Value{phpval.String("k")},
		Receiver: receiver,
	})
	require.Equal(t, phpval.KindString, rv.Kind())
	assert.Equal(t, "v", rv.String())

	rv = zendinterface.Simulate(zendinterface.SimulatedCall{
		Entity:   kvStoreCountEntity,
		Receiver: receiver,
	})
	require.Equal(t, phpval.KindLong, rv.Kind())
	assert.Equal(t, int64(1), rv.Long())
}

func TestRegisteredFunctionRecords(t *testing.T) {
	info := zendinterface.DescribeEntry(kvSetEntity)
	assert.Equal(t, "kv_set", info.Name)
	assert.Equal(t, 2, info.NumArgs)
	assert.Equal(t, 2, info.RequiredArgs)

	info = zendinterface.DescribeEntry(kvGetEntity)
	assert.Equal(t, "kv_get", info.Name)
	assert.Equal(t, 2, info.NumArgs)
	assert.Equal(t, 1, info.RequiredArgs)
}

func TestKVStoreClassBound(t *testing.T) {
	require.NotNil(t, kvStoreClass)
	assert.Equal(t, "KVStore", kvStoreClass.Name())
	assert.Equal(t, 4, kvStoreTable.Len())
	assert.Equal(t, 4, functionTable.Len())
}
