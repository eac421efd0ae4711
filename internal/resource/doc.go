// Package resource implements the Controller for limits shared by clustering runs.
//
// The Controller manages two resource types:
//
//   - Memory: Track and limit scratch memory (non-blocking, fail-fast)
//   - Concurrency: Limit how many runs execute at the same time
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(keyBytes); err != nil {
//	    // ErrMemoryLimitExceeded - fail the run
//	}
//	defer rc.ReleaseMemory(keyBytes)
//
// # Run Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentRuns: 4,
//	})
//
//	if err := rc.AcquireRun(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseRun()
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
