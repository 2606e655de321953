package montecarlo

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pimonhq/pimon/internal/pkg/pimon/queue"
	"github.com/pimonhq/pimon/internal/pkg/pimon/stats"
	"github.com/pimonhq/pimon/internal/pkg/shared/apm"
	"github.com/pimonhq/pimon/internal/pkg/shared/idgen"
	log "github.com/pimonhq/pimon/internal/pkg/shared/logger"

	"github.com/remeh/sizedwaitgroup"
)

// Monitor runs the producer/consumer workload over the blocking queue.
// Workers producers push random points and an equal number of consumers
// pop and classify them, with each goroutine handling 2*PointsPerWorker
// points so the total matches the other workloads.
func Monitor(cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	runID, err := idgen.GenerateID()
	if err != nil {
		return Result{}, err
	}
	perWorker := 2 * cfg.PointsPerWorker
	total := cfg.TotalPoints()

	log.Info(log.M{Msg: "Monitor execution using the blocking queue, running " +
		strconv.Itoa(cfg.Workers) + " producers and " + strconv.Itoa(cfg.Workers) +
		" consumers, each processing " + strconv.FormatUint(perWorker, 10) + " points", RId: runID})

	var tx *apm.Transaction
	if apm.Enabled() {
		tx = apm.StartTransaction("monitor", "workload", nil)
		tx.SetCustom("workers", strconv.Itoa(cfg.Workers))
		tx.SetCustom("points", strconv.FormatUint(total, 10))
		defer tx.End()
	}

	q := queue.New[Point]()
	watcher := stats.NewWatcher(q.Size, cfg.Pacer)
	reportDone := make(chan struct{})
	if cfg.ReportInterval > 0 {
		go watcher.Report(cfg.ReportInterval, reportDone)
	}

	var inCircle atomic.Uint64
	var wg sync.WaitGroup
	ctx := context.Background()

	start := time.Now()
	for w := 1; w <= cfg.Workers; w++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
			for i := uint64(0); i < perWorker; i++ {
				if cfg.Sleep > 0 {
					time.Sleep(cfg.Sleep)
				}
				if cfg.Pacer != nil {
					if err := cfg.Pacer.Wait(ctx); err != nil {
						log.Warn(log.M{Msg: "producer pacing failed: " + err.Error(), WId: id, RId: runID})
					}
				}
				q.Push(randPoint(rng))
			}
			log.Debug(log.M{Msg: "producer done", WId: id, RId: runID})
		}(w)
		go func(id int) {
			defer wg.Done()
			for i := uint64(0); i < perWorker; i++ {
				if cfg.Sleep > 0 {
					time.Sleep(cfg.Sleep)
				}
				p := q.Pop()
				in := p.InCircle()
				if in {
					inCircle.Add(1)
				}
				watcher.MarkPoint()
				if cfg.Trace != nil {
					cfg.Trace.EnqueueWrite(traceLine(p, in))
				}
			}
			log.Debug(log.M{Msg: "consumer done", WId: id, RId: runID})
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)
	close(reportDone)

	if n := q.Size(); n != 0 {
		log.Warn(log.M{Msg: "queue still holds " + strconv.Itoa(n) + " points after the join", RId: runID})
	}

	in := inCircle.Load()
	est, errPct := Estimate(in, total)
	if tx != nil {
		tx.Result("completed")
	}
	log.Info(log.M{Msg: "monitor workload done in " + elapsed.String(), RId: runID})
	return Result{
		Workload:   WorkloadMonitor,
		RunID:      runID,
		Workers:    cfg.Workers,
		Points:     total,
		InCircle:   in,
		Estimate:   est,
		ErrPercent: errPct,
		Elapsed:    elapsed,
	}, nil
}

// Sequential processes the same total number of points in a single
// goroutine, as the baseline the concurrent workloads are compared to.
func Sequential(cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	runID, err := idgen.GenerateID()
	if err != nil {
		return Result{}, err
	}
	total := cfg.TotalPoints()

	log.Info(log.M{Msg: "Sequential execution using iteration, processing " +
		strconv.FormatUint(total, 10) + " points", RId: runID})

	var tx *apm.Transaction
	if apm.Enabled() {
		tx = apm.StartTransaction("sequential", "workload", nil)
		tx.SetCustom("points", strconv.FormatUint(total, 10))
		defer tx.End()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var inCircle uint64

	start := time.Now()
	for i := uint64(0); i < total; i++ {
		if cfg.Sleep > 0 {
			time.Sleep(cfg.Sleep)
		}
		if randPoint(rng).InCircle() {
			inCircle++
		}
	}
	elapsed := time.Since(start)

	est, errPct := Estimate(inCircle, total)
	if tx != nil {
		tx.Result("completed")
	}
	log.Info(log.M{Msg: "sequential workload done in " + elapsed.String(), RId: runID})
	return Result{
		Workload:   WorkloadSequential,
		RunID:      runID,
		Workers:    1,
		Points:     total,
		InCircle:   inCircle,
		Estimate:   est,
		ErrPercent: errPct,
		Elapsed:    elapsed,
	}, nil
}

// Parallel splits the same total across 2*Workers independent goroutines
// that never exchange data, the upper bound the queue hand-off is
// measured against. Each goroutine owns one slot of the counts slice so
// no synchronization is needed beyond the final join.
func Parallel(cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	runID, err := idgen.GenerateID()
	if err != nil {
		return Result{}, err
	}
	nWorkers := 2 * cfg.Workers
	total := cfg.TotalPoints()

	log.Info(log.M{Msg: "Parallel execution using independent goroutines, running " +
		strconv.Itoa(nWorkers) + " workers, each processing " +
		strconv.FormatUint(cfg.PointsPerWorker, 10) + " points", RId: runID})

	var tx *apm.Transaction
	if apm.Enabled() {
		tx = apm.StartTransaction("parallel", "workload", nil)
		tx.SetCustom("workers", strconv.Itoa(nWorkers))
		tx.SetCustom("points", strconv.FormatUint(total, 10))
		defer tx.End()
	}

	counts := make([]uint64, nWorkers)
	swg := sizedwaitgroup.New(nWorkers)

	start := time.Now()
	for idx := 0; idx < nWorkers; idx++ {
		swg.Add()
		go func(idx int) {
			defer swg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(idx)))
			for i := uint64(0); i < cfg.PointsPerWorker; i++ {
				if cfg.Sleep > 0 {
					time.Sleep(cfg.Sleep)
				}
				if randPoint(rng).InCircle() {
					counts[idx]++
				}
			}
		}(idx)
	}
	swg.Wait()
	elapsed := time.Since(start)

	var inCircle uint64
	for _, c := range counts {
		inCircle += c
	}
	est, errPct := Estimate(inCircle, total)
	if tx != nil {
		tx.Result("completed")
	}
	log.Info(log.M{Msg: "parallel workload done in " + elapsed.String(), RId: runID})
	return Result{
		Workload:   WorkloadParallel,
		RunID:      runID,
		Workers:    nWorkers,
		Points:     total,
		InCircle:   inCircle,
		Estimate:   est,
		ErrPercent: errPct,
		Elapsed:    elapsed,
	}, nil
}
