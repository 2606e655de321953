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

package montecarlo

import (
	"fmt"
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/pimonhq/pimon/internal/pkg/pimon/limiter"
	"github.com/pimonhq/pimon/internal/pkg/shared/fs"
	log "github.com/pimonhq/pimon/internal/pkg/shared/logger"
)

func verifyFuncOutput(t *testing.T, f func(), expected string, expectMatch bool) {
	out := log.CaptureZapOutput(f)
	t.Log("out: ", out)
	if !strings.Contains(out, expected) == expectMatch {
		t.Fatalf("Cannot find '%s' in output: %s", expected, out)
	} else {
		fmt.Println("OK")
	}
}

func checkResult(t *testing.T, res Result, workload string, workers int, points uint64) {
	t.Helper()
	if res.Workload != workload {
		t.Fatalf("workload is %s, expected %s", res.Workload, workload)
	}
	if res.RunID == "" {
		t.Fatal("run ID should not be empty")
	}
	if res.Workers != workers {
		t.Fatalf("workers is %d, expected %d", res.Workers, workers)
	}
	if res.Points != points {
		t.Fatalf("points is %d, expected %d", res.Points, points)
	}
	if res.InCircle == 0 || res.InCircle > res.Points {
		t.Fatalf("in-circle count %d out of range for %d points", res.InCircle, res.Points)
	}
	if res.Estimate < 2 || res.Estimate > 4 {
		t.Fatalf("estimate %v too far off", res.Estimate)
	}
	if res.ErrPercent < 0 {
		t.Fatalf("percent error %v should not be negative", res.ErrPercent)
	}
	if res.Elapsed <= 0 {
		t.Fatal("elapsed time should be positive")
	}
}

func TestMonitor(t *testing.T) {
	if !log.TestMode {
		t.Logf("Enabling log test mode")
		log.EnableTestingMode()
	}
	res, err := Monitor(Config{Workers: 2, PointsPerWorker: 100})
	if err != nil {
		t.Fatal(err)
	}
	checkResult(t, res, WorkloadMonitor, 2, 400)
}

func TestSequential(t *testing.T) {
	if !log.TestMode {
		log.EnableTestingMode()
	}
	res, err := Sequential(Config{Workers: 2, PointsPerWorker: 100})
	if err != nil {
		t.Fatal(err)
	}
	checkResult(t, res, WorkloadSequential, 1, 400)
}

func TestParallel(t *testing.T) {
	if !log.TestMode {
		log.EnableTestingMode()
	}
	res, err := Parallel(Config{Workers: 2, PointsPerWorker: 100})
	if err != nil {
		t.Fatal(err)
	}
	checkResult(t, res, WorkloadParallel, 4, 400)
}

func TestMonitorReporting(t *testing.T) {
	if !log.TestMode {
		log.EnableTestingMode()
	}
	pacer, err := limiter.New(500000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{
		Workers:         2,
		PointsPerWorker: 500,
		Sleep:           50 * time.Microsecond,
		Pacer:           pacer,
		ReportInterval:  10 * time.Millisecond,
	}
	verifyFuncOutput(t, func() {
		res, err := Monitor(cfg)
		if err != nil {
			t.Fatal(err)
		}
		checkResult(t, res, WorkloadMonitor, 2, 2000)
	}, "Monitor queue length", true)
}

func TestMonitorTrace(t *testing.T) {
	if !log.TestMode {
		log.EnableTestingMode()
	}
	traceFile := path.Join(os.TempDir(), "pimon_trace.csv")
	_ = os.Remove(traceFile)
	fw := &fs.FileWriter{}
	if err := fw.Init(traceFile, 1000); err != nil {
		t.Fatal(err)
	}
	defer fw.Stop()
	defer os.Remove(traceFile)

	res, err := Monitor(Config{Workers: 1, PointsPerWorker: 25, Trace: fw})
	if err != nil {
		t.Fatal(err)
	}
	checkResult(t, res, WorkloadMonitor, 1, 50)

	expected := int(res.Points)
	var lines []string
	for i := 0; i < 100; i++ {
		time.Sleep(20 * time.Millisecond)
		b, err := os.ReadFile(traceFile)
		if err != nil {
			continue
		}
		lines = strings.Split(strings.TrimSpace(string(b)), "\n")
		if len(lines) >= expected {
			break
		}
	}
	if len(lines) != expected {
		t.Fatalf("expected %d trace lines, found %d", expected, len(lines))
	}
	for _, l := range lines {
		if strings.Count(l, ",") != 2 {
			t.Fatalf("malformed trace line: %s", l)
		}
	}
}
