// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag. Without it
// [Modes] is empty and [Profiler.Start] does nothing, so callers never need
// their own build constraints.
//
//	go build -tags pprof .
//	hugo --pprof-mode cpu --pprof-dir ./prof run big.hl
//	go tool pprof -http=: ./prof/cpu.pprof
//
// The cpu and mem modes are the useful ones for the parser: the first shows
// where grammar rules spend their time, the second how much the memo table
// holds on to.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
