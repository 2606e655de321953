package montecarlo

import (
	"fmt"
	"strings"
	"time"
)

// RenderHeader returns the banner printed once before the first workload
func RenderHeader(sleep time.Duration) string {
	var b strings.Builder
	b.WriteString("MONTE CARLO PI ESTIMATOR\n")
	b.WriteString("------------------------\n")
	if sleep > 0 {
		fmt.Fprintf(&b, "\tAdditional %s added per point.\n", sleep)
	}
	return b.String()
}

// Render returns the human readable report for one workload run
func Render(r Result) string {
	var b strings.Builder
	switch r.Workload {
	case WorkloadMonitor:
		per := r.Points / uint64(r.Workers)
		fmt.Fprintf(&b, "Monitor execution using the blocking queue.\n")
		fmt.Fprintf(&b, "Running %d producers and %d consumers, each processing %d points...\n",
			r.Workers, r.Workers, per)
	case WorkloadSequential:
		fmt.Fprintf(&b, "Sequential execution using iteration.\n")
		fmt.Fprintf(&b, "Processing %d points iteratively...\n", r.Points)
	case WorkloadParallel:
		per := r.Points / uint64(r.Workers)
		fmt.Fprintf(&b, "Parallel execution using independent goroutines.\n")
		fmt.Fprintf(&b, "Running %d workers, each processing %d points...\n", r.Workers, per)
	default:
		fmt.Fprintf(&b, "%s execution.\n", r.Workload)
	}
	fmt.Fprintf(&b, "\tElapsed time: %d ms\n", r.Elapsed.Milliseconds())
	fmt.Fprintf(&b, "\tEstimate: %g\n", r.Estimate)
	fmt.Fprintf(&b, "\tPercent error: %g\n", r.ErrPercent)
	return b.String()
}
