// Package store implements a copy-on-write overlay over two equally sized
// block images. The original image stays untouched, all writes land in the
// overlay image at the same offsets. A packed bitmap remembers per group of
// blocks whether the valid data lives in the original or in the overlay.
//
// Reads route each region to whichever image currently holds the valid
// bytes. The first write into a group rescues the group's untouched
// neighbor bytes into the overlay before the payload goes in, so a later
// read never mixes stale original data into a dirty group.
//
// A Store is not safe for concurrent use. Callers that share a store
// between goroutines have to serialize whole Read/Write calls.
package store
