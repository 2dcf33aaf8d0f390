// Package buffer provides the multi-channel sample block shared between a
// host and its processors, and a pool for reusing blocks in real-time loops.
//
// A Block stores one row per global channel in a single contiguous backing
// slice. Channel returns a writable view of one row; processors mutate rows in
// place and must not retain them beyond the call that received the block.
package buffer
