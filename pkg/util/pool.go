package util

import "runtime"

// GetOptimalPoolSize returns the worker count for batch exports.
//
// Formula: min(max(runtime.NumCPU(), 2), 16)
//
// Exports are pure CPU work with no I/O between reading the input and
// writing the result, so one worker per core is enough. The cap keeps
// memory bounded when many large pages are decoded at once.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU()

	if poolSize < 2 {
		poolSize = 2
	}
	if poolSize > 16 {
		poolSize = 16
	}

	return poolSize
}

// GetOptimalPoolSizeWithOverride returns pool size with optional override.
//
// If override > 0, uses override value (for testing/tuning).
// Otherwise, uses GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
