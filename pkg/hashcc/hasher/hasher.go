// Package hasher fans a work list out across a bounded pool of
// goroutines and collects one digest per successfully hashed file.
// Each work item is consumed by exactly one worker; results land in
// per-item slots, so no worker ever touches shared mutable state.
// Per-file failures go to an error side channel instead of aborting
// the batch.
package hasher

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/hashcc/pkg/hashcc/digest"
	"github.com/jamesainslie/hashcc/pkg/hashcc/reader"
	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
)

// Result is the outcome of a parallel hashing run.
type Result struct {
	// Records holds one entry per successfully hashed file, sorted by
	// path (the input order, which the walker already sorted).
	Records []types.DigestRecord

	// Errors collects files that failed to hash.
	Errors []types.HashError

	// BytesHashed is the total number of bytes fed through the digest
	// engine.
	BytesHashed int64
}

// slot is the per-item result cell. Exactly one worker writes each
// slot, so the slice needs no locking.
type slot struct {
	hash string
	size int64
	err  error
}

// Run hashes every item with the given algorithm using at most workers
// goroutines. If workers <= 0 it defaults to GOMAXPROCS. The input
// order of items is preserved in Records, minus failed entries.
func Run(ctx context.Context, items []string, a digest.Algorithm, workers int) (*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(items) == 0 {
		return &Result{Records: []types.DigestRecord{}, Errors: []types.HashError{}}, nil
	}

	slots := make([]slot, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(items)))

	for i, path := range items {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			hash, size, err := reader.HashFile(path, a)
			slots[i] = slot{hash: hash, size: size, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Records: make([]types.DigestRecord, 0, len(items)),
		Errors:  []types.HashError{},
	}
	for i, s := range slots {
		if s.err != nil {
			res.Errors = append(res.Errors, types.HashError{Path: items[i], Error: s.err.Error()})
			continue
		}
		res.Records = append(res.Records, types.DigestRecord{Path: items[i], Hash: s.hash})
		res.BytesHashed += s.size
	}
	return res, nil
}
