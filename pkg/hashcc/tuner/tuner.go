// Package tuner detects system resources and derives the hashing
// worker count from them. Hashing is CPU-bound with mmap-backed I/O,
// so the pool is sized to the core count, trimmed on machines with
// little free memory where many concurrent mappings would thrash.
package tuner

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the available (free) RAM in bytes.
	// This may be an estimate based on system heuristics.
	AvailableRAM int64
}

// Worker configuration limits.
const (
	// maxWorkers caps the pool to avoid excessive context switching.
	maxWorkers = 32

	// minWorkers keeps some parallelism even on small systems.
	minWorkers = 2

	// lowMemoryThreshold is the available-RAM floor below which the
	// worker count is halved. Concurrent mappings of large files are
	// cheap address space but expensive page cache.
	lowMemoryThreshold = 1 << 30 // 1 GiB
)

// Workers returns the hashing worker count for the detected resources.
func Workers(resources SystemResources) int {
	workers := resources.CPUCores
	if resources.AvailableRAM > 0 && resources.AvailableRAM < lowMemoryThreshold {
		workers /= 2
	}
	workers = max(workers, minWorkers)
	workers = min(workers, maxWorkers)
	return workers
}

// WorkersWithOverride applies a user override to the tuned count.
// If override is greater than 0 it wins, still capped at maxWorkers.
func WorkersWithOverride(resources SystemResources, override int) int {
	if override > 0 {
		return min(override, maxWorkers)
	}
	return Workers(resources)
}
