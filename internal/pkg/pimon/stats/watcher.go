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

package stats

import (
	"expvar"
	"runtime"
	"strconv"
	"time"

	rc "github.com/paulbellamy/ratecounter"

	"github.com/pimonhq/pimon/internal/pkg/pimon/limiter"
	log "github.com/pimonhq/pimon/internal/pkg/shared/logger"
)

var pointCounter = expvar.NewInt("point_counter")
var queueLengthGauge = expvar.NewInt("queue_length")
var goRoutineCounter = expvar.NewInt("goroutine_counter")
var paceGauge = expvar.NewInt("pace_limit")

// queue depth beyond this means consumers are falling behind and paced
// producers should back off
const highWater = 8192

// Watcher tracks consumption progress of a monitor run and logs it every
// tick. With a pacer attached it also drives the producer pace from the
// observed queue depth. The depth readings are stale snapshots, which is
// fine here, nothing correctness-related depends on them.
type Watcher struct {
	rate        *rc.RateCounter
	queueLength func() int
	pacer       *limiter.Limiter
	oneTimeRun  bool
}

// NewWatcher returns a Watcher over the given queue length reader.
// pacer may be nil.
func NewWatcher(queueLength func() int, pacer *limiter.Limiter) *Watcher {
	return &Watcher{
		rate:        rc.NewRateCounter(1 * time.Second),
		queueLength: queueLength,
		pacer:       pacer,
	}
}

// MarkPoint records one consumed point
func (w *Watcher) MarkPoint() {
	w.rate.Incr(1)
	pointCounter.Add(1)
}

// Rate returns consumed points/sec over the last second
func (w *Watcher) Rate() int64 {
	return w.rate.Rate()
}

// Report logs progress every interval until done is closed. Callers run it
// on its own goroutine.
func (w *Watcher) Report(interval time.Duration, done chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		ql := w.queueLength()
		queueLengthGauge.Set(int64(ql))
		nr := runtime.NumGoroutine()
		goRoutineCounter.Set(int64(nr))

		m := "Monitor queue length: " + strconv.Itoa(ql) +
			" points/sec: " + strconv.FormatInt(w.Rate(), 10) +
			" goroutines: " + strconv.Itoa(nr)

		if w.pacer != nil {
			if ql > highWater {
				pace := w.pacer.Lower()
				paceGauge.Set(int64(pace))
				log.Warn(log.M{Msg: "Queue depth " + strconv.Itoa(ql) +
					" passed high water mark, backing off producers to " +
					strconv.Itoa(pace) + " points/sec"})
			} else if ql <= highWater/2 {
				pace := w.pacer.Raise()
				paceGauge.Set(int64(pace))
			}
			m += " pace: " + strconv.Itoa(w.pacer.Limit())
		}

		log.Info(log.M{Msg: m})
		if w.oneTimeRun {
			return
		}
	}
}
