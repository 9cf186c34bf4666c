//go:build !pprof

package profile

import "iter"

// Enabled reports whether profiling is compiled in.
const Enabled = false

// Modes returns no modes when profiling is not compiled in.
func Modes() iter.Seq[string] {
	return func(func(string) bool) {}
}

func start(Profiler) Stopper { return ignore{} }
