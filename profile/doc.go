// Package profile provides optional runtime profiling for platelet.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Config.Start] always returns a
// no-op [Stopper], so callers never need their own build constraints.
//
// # Modes
//
// With the tag, the supported modes are allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread and trace. Profile files are written
// to the configured directory with names matching the mode (cpu.pprof,
// mem.pprof and so on):
//
//	stop := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithDir("/tmp/profiles"),
//	).Start()
//	defer stop.Stop()
//
// Analyze the output with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The pprof build also imports [net/http/pprof], registering its handlers on
// [net/http.DefaultServeMux] for programs that serve it.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
