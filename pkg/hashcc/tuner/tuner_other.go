//go:build !darwin && !linux

package tuner

import (
	"runtime"
)

// defaultTotalRAM is the fallback total RAM value when detection is
// not implemented for the platform.
const defaultTotalRAM = 8 * 1024 * 1024 * 1024

// Detect detects available system resources (CPU and RAM).
// On platforms without memory detection, it uses runtime.NumCPU() for
// CPU cores and falls back to reasonable defaults for memory.
func Detect() (SystemResources, error) {
	totalRAM := int64(defaultTotalRAM)

	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     totalRAM,
		AvailableRAM: totalRAM / 2,
	}, nil
}
