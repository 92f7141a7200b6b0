package reclaim

// Handle tracks a started reclaimer process.
type Handle interface {
	// Wait blocks until the reclaimer exits and reports a non-zero exit.
	Wait() error
}

// Reclaimer starts an out-of-process garbage collection pass over stale
// containers and unreferenced images.
type Reclaimer interface {
	// Reclaim starts the collector with its transient state rooted at
	// scratchDir and returns immediately, leaving the caller free to do
	// other work before joining the handle.
	Reclaim(scratchDir string) (Handle, error)
}
