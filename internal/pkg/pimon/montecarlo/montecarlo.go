// Copyright (c) 2024 Pimon Labs and contributors, All rights reserved.
//
// This file is part of Pimon.
//
// Pimon is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation version 3 of the License.
//
// Pimon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pimon. If not, see <https://www.gnu.org/licenses/>.

// Package montecarlo estimates pi by random sampling and measures how the
// blocking queue behaves as the hand-off between producers and consumers,
// compared against sequential and fully parallel runs of the same total
// work.
package montecarlo

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/pimonhq/pimon/internal/pkg/pimon/limiter"
	"github.com/pimonhq/pimon/internal/pkg/shared/fs"
)

// Workload names as they appear in results and logs
const (
	WorkloadMonitor    = "monitor"
	WorkloadSequential = "sequential"
	WorkloadParallel   = "parallel"
)

// Point is a sample drawn uniformly from [-1,1) on both axes
type Point struct {
	X float64
	Y float64
}

// InCircle reports whether the point falls inside the unit circle
func (p Point) InCircle() bool {
	return p.X*p.X+p.Y*p.Y < 1
}

func randPoint(rng *rand.Rand) Point {
	return Point{X: 2*rng.Float64() - 1, Y: 2*rng.Float64() - 1}
}

func traceLine(p Point, in bool) string {
	return strconv.FormatFloat(p.X, 'f', 6, 64) + "," +
		strconv.FormatFloat(p.Y, 'f', 6, 64) + "," + strconv.FormatBool(in)
}

// Config parameterizes one workload run. The same Config drives all three
// workloads so their total point count stays identical.
type Config struct {
	// Workers is the number of producers in the monitor workload, matched
	// by an equal number of consumers. The parallel workload runs twice
	// this many independent workers.
	Workers int
	// PointsPerWorker scales the run, every workload ends up processing
	// 2 * Workers * PointsPerWorker points in total.
	PointsPerWorker uint64
	// Sleep simulates per-point work on both the producing and the
	// consuming side. Zero disables it.
	Sleep time.Duration
	// Pacer optionally throttles monitor producers. Nil runs unpaced.
	Pacer *limiter.Limiter
	// ReportInterval enables periodic progress logging during the monitor
	// workload. Zero disables it.
	ReportInterval time.Duration
	// Trace optionally receives one line per consumed point in the
	// monitor workload, as "x,y,inCircle" CSV.
	Trace *fs.FileWriter
}

func (c Config) validate() error {
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.PointsPerWorker < 1 {
		return errors.New("points per worker must be at least 1")
	}
	return nil
}

// TotalPoints returns the number of points every workload processes
func (c Config) TotalPoints() uint64 {
	return 2 * uint64(c.Workers) * c.PointsPerWorker
}

// Result captures one finished workload run
type Result struct {
	Workload   string        `json:"workload" csv:"workload"`
	RunID      string        `json:"run_id" csv:"run_id"`
	Workers    int           `json:"workers" csv:"workers"`
	Points     uint64        `json:"points" csv:"points"`
	InCircle   uint64        `json:"in_circle" csv:"in_circle"`
	Estimate   float64       `json:"estimate" csv:"estimate"`
	ErrPercent float64       `json:"error_percent" csv:"error_percent"`
	Elapsed    time.Duration `json:"elapsed_ns" csv:"elapsed_ns"`
}

// Estimate returns the pi estimate for an in-circle count and its percent
// error against the real value. total must be non-zero.
func Estimate(inCircle, total uint64) (est float64, errPercent float64) {
	est = float64(4*inCircle) / float64(total)
	diff := est - math.Pi
	if diff < 0 {
		diff = -diff
	}
	return est, 100 * diff / math.Pi
}
