// fork.go: fork-safety lifecycle hooks
//
// Grounded on original_source/src/hook_io_handle.h's prefork/postfork_parent/
// postfork_child triplet (spec.md §4.5): a child process created by fork()
// inherits a frozen copy of every lock, mid-acquisition or not. Without
// coordination, a lock held by some other thread at the instant of fork()
// is permanently stuck in the child, since the thread that would release it
// does not exist there. The fix is to quiesce everything before fork() and
// restore it after, in parent and child alike.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

// Prefork must be called immediately before the host process calls
// fork(2) (for example from a pthread_atfork-equivalent prepare hook, or
// from Go code that shells out via os/exec after first quiescing a
// bundled native fork). It acquires, in order, the accumulator's rotation
// mutex and both buffer sides' bucket locks, then the registry's bucket
// locks, leaving the engine in a fully quiesced state with every mutex
// held by the calling thread.
func (e *Engine) Prefork() {
	e.accumulator.lockPrefork()
	e.registry.lockPrefork()
}

// PostforkParent releases the locks Prefork acquired, in the reverse
// order, restoring normal operation in the parent process.
func (e *Engine) PostforkParent() {
	e.registry.unlockPostfork()
	e.accumulator.unlockPostfork()
}

// PostforkChild releases the same locks in the child process. The child
// inherited them already held (fork() duplicates the address space, not
// the holding threads), so this call - not a fresh lock/unlock pair - is
// what makes the child's copies usable again. Released in the same
// reverse order as PostforkParent for symmetry; the lock is not ordered
// or recursive, so any consistent release order is safe.
func (e *Engine) PostforkChild() {
	e.registry.unlockPostfork()
	e.accumulator.unlockPostfork()
}
