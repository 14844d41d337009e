package acezip

import (
	"runtime"
	"time"
)

// Options configures a Packager.
type Options struct {
	// WorkDir is where transient copies, the manifest and the marker are
	// written. When empty, inputs are read in place and transient files go to
	// a private temp directory.
	WorkDir string
	// LockTimeout bounds how long a writer waits for another writer of the same archive.
	LockTimeout time.Duration
	// Parallelism bounds concurrent file sniffing.
	Parallelism int
}

// Packager builds and reads ACE project archives. Every method is a complete
// transaction; a Packager holds no state between calls.
type Packager struct {
	opts Options
}

// New creates a Packager.
func New(opts Options) *Packager {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 30 * time.Second
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	return &Packager{opts: opts}
}
