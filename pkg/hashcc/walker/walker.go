// Package walker enumerates the files to hash under a root using
// parallel directory traversal. Exclusion patterns are applied before
// a file is ever scheduled, so excluded files never open a handle.
// Traversal order is nondeterministic; the returned work list is
// sorted once at the end so results are stable across runs.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/hashcc/pkg/hashcc/exclude"
	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
)

// Options configures traversal behavior.
type Options struct {
	// Exclude is the compiled exclusion set. Nil matches nothing.
	Exclude *exclude.Set

	// FollowSymlinks makes the walk traverse symlinked directories.
	// Off by default: following links can loop on cycles.
	FollowSymlinks bool
}

// Result is the outcome of an enumeration.
type Result struct {
	// Items is the lexicographically sorted list of files to hash.
	Items []string

	// Errors collects per-path traversal failures. They never abort
	// the walk.
	Errors []types.HashError

	// DirsWalked is the number of directories visited.
	DirsWalked int64

	// FilesExcluded is the number of regular files skipped by the
	// exclusion set.
	FilesExcluded int64
}

// Walker performs parallel enumeration rooted at a file or directory.
type Walker struct {
	opts Options

	dirsWalked    atomic.Int64
	filesExcluded atomic.Int64

	items   []string
	itemsMu sync.Mutex

	errs   []types.HashError
	errsMu sync.Mutex
}

// New creates a Walker with the given options.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk enumerates files under root. A single-file root yields that
// file unless excluded. A directory root is traversed with fastwalk;
// callback errors are collected, not fatal.
func (w *Walker) Walk(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if w.opts.Exclude.Match(root) {
			w.filesExcluded.Add(1)
		} else if info.Mode().IsRegular() {
			w.items = append(w.items, root)
		}
		return w.result(), nil
	}

	conf := fastwalk.Config{
		Follow: w.opts.FollowSymlinks,
	}
	err = fastwalk.Walk(&conf, root, w.callback(ctx))
	if err != nil && !errors.Is(err, fastwalk.ErrSkipFiles) {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return w.result(), nil
}

// callback returns the fastwalk callback. It runs concurrently across
// directories, so all shared state is mutex- or atomically guarded.
func (w *Walker) callback(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			w.addError(path, err)
			return nil
		}

		if d.IsDir() {
			w.dirsWalked.Add(1)
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if w.opts.Exclude.Match(path) {
			w.filesExcluded.Add(1)
			return nil
		}

		w.itemsMu.Lock()
		w.items = append(w.items, path)
		w.itemsMu.Unlock()
		return nil
	}
}

// result sorts the collected items and assembles the Result.
func (w *Walker) result() *Result {
	sort.Strings(w.items)
	if w.errs == nil {
		w.errs = []types.HashError{}
	}
	return &Result{
		Items:         w.items,
		Errors:        w.errs,
		DirsWalked:    w.dirsWalked.Load(),
		FilesExcluded: w.filesExcluded.Load(),
	}
}

func (w *Walker) addError(path string, err error) {
	w.errsMu.Lock()
	w.errs = append(w.errs, types.HashError{Path: path, Error: err.Error()})
	w.errsMu.Unlock()
}
