package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zephp/extension/internal/influx"
	"github.com/zephp/extension/internal/registry"
	"github.com/zephp/extension/pkg/core"
	"github.com/zephp/extension/pkg/phpval"
)

// Script-visible registrations. The arg descriptors drive the arity check
// and the engine's reflection output, so optional args go last.
var (
	kvGetEntity = registry.NewFunctionEntity("kv_get", kvGet,
		registry.ByVal("key"), registry.ByValOptional("default"))
	kvSetEntity = registry.NewFunctionEntity("kv_set", kvSet,
		registry.ByVal("key"), registry.ByVal("value"))
	kvDeleteEntity = registry.NewFunctionEntity("kv_delete", kvDelete,
		registry.ByVal("key"))
	kvStatsEntity = registry.NewFunctionEntity("kv_stats", kvStats)

	kvStoreGetEntity = registry.NewMethodEntity("get", kvStoreGet,
		registry.ByVal("key"), registry.ByValOptional("default"))
	kvStoreSetEntity = registry.NewMethodEntity("set", kvStoreSet,
		registry.ByVal("key"), registry.ByVal("value"))
	kvStoreRemoveEntity = registry.NewMethodEntity("remove", kvStoreRemove,
		registry.ByVal("key"))
	kvStoreCountEntity = registry.NewMethodEntity("count", kvStoreCount)
)

// reportCall sends per-call statistics to InfluxDB when reporting is enabled.
func reportCall(function string, numArgs int, start time.Time) {
	if InfluxManager == nil {
		return
	}
	point := influx.CallPoint(function, numArgs, false, time.Since(start))
	if err := InfluxManager.WritePoint(context.Background(), "phpkv_calls", point); err != nil {
		Logger.Debug().Err(err).Msg("Failed to report call metrics")
	}
}

func kvGet(args []phpval.Value) any {
	defer reportCall("kv_get", len(args), time.Now())

	if storageBackend == nil {
		return fmt.Errorf("phpkv storage is not initialized")
	}

	key := args[0].String()
	e, found, err := storageBackend.Get(key)
	if err != nil {
		Logger.Error().Err(err).Str("key", key).Msg("kv_get failed")
		return err
	}
	if !found {
		if len(args) >= 2 {
			return args[1]
		}
		return nil
	}
	return e.Value
}

func kvSet(args []phpval.Value) any {
	defer reportCall("kv_set", len(args), time.Now())

	if storageBackend == nil {
		return fmt.Errorf("phpkv storage is not initialized")
	}

	key := args[0].String()
	value := args[1].String()

	if max := Globals.Get().MaxValueSize; max > 0 && int64(len(value)) > max {
		return fmt.Errorf("value for key %q exceeds phpkv.max_value_size (%d bytes)", key, max)
	}

	err := storageBackend.Set(core.Entry{Key: key, Value: value, UpdatedAt: time.Now()})
	if err != nil {
		Logger.Error().Err(err).Str("key", key).Msg("kv_set failed")
		return err
	}
	return true
}

func kvDelete(args []phpval.Value) any {
	defer reportCall("kv_delete", len(args), time.Now())

	if storageBackend == nil {
		return fmt.Errorf("phpkv storage is not initialized")
	}

	key := args[0].String()
	if err := storageBackend.Delete(key); err != nil {
		Logger.Error().Err(err).Str("key", key).Msg("kv_delete failed")
		return err
	}
	return true
}

func kvStats(args []phpval.Value) any {
	defer reportCall("kv_stats", len(args), time.Now())

	if storageBackend == nil {
		return fmt.Errorf("phpkv storage is not initialized")
	}

	encoded, err := json.Marshal(storageBackend.Stats())
	if err != nil {
		return err
	}
	return string(encoded)
}

// KVStore methods reuse the function handlers; the receiver only matters for
// engine-side identity, the backing store is module-wide.

func kvStoreGet(this *phpval.Object, args []phpval.Value) any {
	return kvGet(args)
}

func kvStoreSet(this *phpval.Object, args []phpval.Value) any {
	return kvSet(args)
}

func kvStoreRemove(this *phpval.Object, args []phpval.Value) any {
	return kvDelete(args)
}

func kvStoreCount(this *phpval.Object, args []phpval.Value) any {
	defer reportCall("KVStore::count", len(args), time.Now())

	if storageBackend == nil {
		return fmt.Errorf("phpkv storage is not initialized")
	}

	n, err := storageBackend.Count()
	if err != nil {
		return err
	}
	return n
}
