package spider

import "runtime"

// maxParallelism caps concurrent requests against a single demo site
const maxParallelism = 16

// OptimalParallelism picks a request parallelism from the CPU count.
// Fetching is I/O bound, so it uses twice the CPUs, capped at maxParallelism.
func OptimalParallelism() int {
	p := runtime.NumCPU() * 2
	if p < 2 {
		p = 2
	}
	if p > maxParallelism {
		p = maxParallelism
	}
	return p
}
