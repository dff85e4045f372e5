// aggregate.go: aggregation key/value types for the accounting engine
//
// Grounded on original_source/src/hook_io_handle.h's DoubleBallModuleKey and
// FileRWInfo: a (tid, path) key combined with a read/write byte pair that
// sums on insertOrAdd. The original composes a single string key
// ("combine_key"/"divide_key") to fit std::unordered_map's single-type key;
// Go's comparable structs make that unnecessary, so AggKey stays a plain
// struct key straight into bucketedMap (see SPEC_FULL.md, Supplemented
// Features).
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import "hash/fnv"

// AggKey identifies one (thread, path) accounting bucket.
type AggKey struct {
	TID  uint64
	Path string
}

// AggValue holds the accumulated read/write byte totals for one AggKey
// within a single buffer generation (see accumulator.go).
type AggValue struct {
	ReadBytes  uint64
	WriteBytes uint64
}

func hashAggKey(k AggKey) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(k.TID >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(k.Path))
	return h.Sum64()
}

func combineAggValue(existing *AggValue, incoming AggValue) {
	existing.ReadBytes += incoming.ReadBytes
	existing.WriteBytes += incoming.WriteBytes
}

func hashFD(fd int32) uint64 {
	// fds are small and dense; fnv still gives good dispersion across the
	// prime bucket count without a division-by-small-integer bias.
	h := fnv.New64a()
	var buf [4]byte
	buf[0] = byte(fd)
	buf[1] = byte(fd >> 8)
	buf[2] = byte(fd >> 16)
	buf[3] = byte(fd >> 24)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
