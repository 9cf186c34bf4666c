package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the directory profiles are written to. Empty means the
	// current directory.
	Path string
	// Quiet suppresses the messages pkg/profile prints on start and stop.
	Quiet bool
}

// Start begins profiling and returns a Stopper that ends it. Both are safe to
// call whether or not profiling is compiled in.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
