// registry.go: fd -> path registry
//
// Grounded on original_source/src/hook_io_handle.h's fd_file_name_ member:
// a ConcurrentHashMap<uint64_t, std::string>. An FdEntry exists for a given
// fd iff a successful record_open has been recorded since the most recent
// record_close (or process start) - spec.md §3 invariant.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

// fdRegistry tracks the path each currently-open file descriptor was
// opened with. Latest-wins on reopen, per spec.md §4.4.
type fdRegistry struct {
	m *bucketedMap[int32, string]
}

func newFDRegistry(bucketCount int) *fdRegistry {
	return &fdRegistry{
		m: newBucketedMap[int32, string](bucketCount, func(fd int32) uint64 { return hashFD(fd) }, nil),
	}
}

func (r *fdRegistry) open(fd int32, path string) {
	r.m.insert(fd, path)
}

func (r *fdRegistry) close(fd int32) {
	r.m.erase(fd)
}

func (r *fdRegistry) lookup(fd int32) (string, bool) {
	return r.m.find(fd)
}

func (r *fdRegistry) lockPrefork()    { r.m.lockAll() }
func (r *fdRegistry) unlockPostfork() { r.m.unlockAll() }
