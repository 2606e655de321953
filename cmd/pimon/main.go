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

package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	log "github.com/pimonhq/pimon/internal/pkg/shared/logger"

	"github.com/pimonhq/pimon/internal/pkg/pimon/limiter"
	"github.com/pimonhq/pimon/internal/pkg/pimon/montecarlo"
	"github.com/pimonhq/pimon/internal/pkg/shared/apm"
	"github.com/pimonhq/pimon/internal/pkg/shared/fs"
	"github.com/pimonhq/pimon/internal/pkg/shared/pprof"
	"github.com/pimonhq/pimon/internal/pkg/shared/str"

	uuid "github.com/satori/go.uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	progName         = "pimon"
	traceQueueLength = 10000
)

var version string
var buildTime string

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.PersistentFlags().Bool("dev", false, "Enable development environment specific setting")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug messages for tracing and troubleshooting")
	benchCmd.Flags().IntP("workers", "w", defaultWorkers(), "Number of producers (and consumers) in the monitor workload, also scales the other workloads")
	benchCmd.Flags().IntP("points", "n", 32768, "Number of points processed per worker")
	benchCmd.Flags().DurationP("sleep", "s", 50*time.Nanosecond, "Simulated work added per point, 0 to disable")
	benchCmd.Flags().StringSliceP("workloads", "l", []string{"monitor", "sequential", "parallel"},
		"Workloads to run in order, any of monitor, sequential, and parallel")
	benchCmd.Flags().Int("maxPPS", 0, "Max. points/second pushed by monitor producers, 0 means unpaced")
	benchCmd.Flags().Int("minPPS", 1000, "Min. points/second rate allowed when throttling monitor producers")
	benchCmd.Flags().IntP("interval", "i", 10, "Progress report interval in seconds during the monitor workload, 0 means disabled")
	benchCmd.Flags().Bool("save", false, "Write a JSON results file into the logs directory")
	benchCmd.Flags().String("csv", "", "File to write one CSV line per workload result to, empty means disabled")
	benchCmd.Flags().String("trace", "", "File to write one CSV line per consumed point to, empty means disabled")
	benchCmd.Flags().String("pprof", "", "Generate performance profile, one of cpu, memory, mutex, or block")
	benchCmd.Flags().Bool("apm", false, "Enable elastic APM instrumentation")
	viper.BindPFlag("dev", rootCmd.PersistentFlags().Lookup("dev"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("workers", benchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("points", benchCmd.Flags().Lookup("points"))
	viper.BindPFlag("sleep", benchCmd.Flags().Lookup("sleep"))
	viper.BindPFlag("workloads", benchCmd.Flags().Lookup("workloads"))
	viper.BindPFlag("maxPPS", benchCmd.Flags().Lookup("maxPPS"))
	viper.BindPFlag("minPPS", benchCmd.Flags().Lookup("minPPS"))
	viper.BindPFlag("interval", benchCmd.Flags().Lookup("interval"))
	viper.BindPFlag("save", benchCmd.Flags().Lookup("save"))
	viper.BindPFlag("csv", benchCmd.Flags().Lookup("csv"))
	viper.BindPFlag("trace", benchCmd.Flags().Lookup("trace"))
	viper.BindPFlag("pprof", benchCmd.Flags().Lookup("pprof"))
	viper.BindPFlag("apm", benchCmd.Flags().Lookup("apm"))
}

func initConfig() {
	viper.SetEnvPrefix(progName)
	viper.AutomaticEnv()
}

func defaultWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exit("Error returned from command", err)
	}
}

func exit(msg string, err error) {
	fmt.Println(msg+":", err)
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "pimon",
	Short: "Producer/consumer queue benchmark",
	Long: `
Pimon measures the cost of handing work between goroutines through an
unbounded blocking queue, using Monte Carlo pi estimation as the workload.

The same total number of points is pushed through a monitor run
(producers and consumers joined by the queue), a sequential run, and a
fully parallel run, so their timings and estimates can be compared
directly.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Long:  `Print the version and build information`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version, buildTime)
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the estimation workloads",
	Long: `
Run the configured workloads in order and print a report after each one.

Monitor runs producers that push random points into the blocking queue
and an equal number of consumers that pop and classify them. Sequential
processes the same total in a single goroutine. Parallel splits it
across independent goroutines that never share data.`,

	Run: func(cmd *cobra.Command, args []string) {

		log.Setup(viper.GetBool("debug"))

		workers := viper.GetInt("workers")
		points := viper.GetInt("points")
		sleep := viper.GetDuration("sleep")
		workloads := viper.GetStringSlice("workloads")
		maxPPS := viper.GetInt("maxPPS")
		minPPS := viper.GetInt("minPPS")
		interval := viper.GetInt("interval")
		save := viper.GetBool("save")
		csvFile := viper.GetString("csv")
		traceFile := viper.GetString("trace")
		pp := viper.GetString("pprof")
		esapm := viper.GetBool("apm")

		if workers < 1 {
			workers = 1
		}
		if points < 1 {
			exit("Incorrect points setting", errors.New("points must be at least 1"))
		}
		// PIMON_WORKLOADS env var comes in as one comma separated string
		if len(workloads) == 1 && strings.Contains(workloads[0], ",") {
			workloads = str.CsvToSlice(workloads[0])
		}
		if len(workloads) == 0 {
			exit("Incorrect workloads setting", errors.New("at least one workload must be given"))
		}

		apm.Enable(esapm)

		if pp != "" {
			p, err := pprof.GetProfiler(pp)
			if err != nil {
				exit("Cannot start profiler", err)
			}
			defer p.Stop()
		}

		cfg := montecarlo.Config{
			Workers:         workers,
			PointsPerWorker: uint64(points),
			Sleep:           sleep,
		}
		if maxPPS > 0 {
			if minPPS > maxPPS {
				exit("Incorrect PPS setting", errors.New("minPPS must be <= than maxPPS"))
			}
			pacer, err := limiter.New(maxPPS, minPPS)
			if err != nil {
				exit("Cannot initialize producer pacer", err)
			}
			cfg.Pacer = pacer
		}
		if interval > 0 {
			cfg.ReportInterval = time.Duration(interval) * time.Second
		}
		if traceFile != "" {
			fw := &fs.FileWriter{}
			if err := fw.Init(traceFile, traceQueueLength); err != nil {
				exit("Cannot initialize trace file "+traceFile, err)
			}
			defer fw.Stop()
			cfg.Trace = fw
		}

		sessionID := genUUID()
		log.Info(log.M{Msg: "Starting " + progName + " " + version +
			" benchmark session " + sessionID})

		fmt.Print(montecarlo.RenderHeader(sleep))

		runners := map[string]func(montecarlo.Config) (montecarlo.Result, error){
			montecarlo.WorkloadMonitor:    montecarlo.Monitor,
			montecarlo.WorkloadSequential: montecarlo.Sequential,
			montecarlo.WorkloadParallel:   montecarlo.Parallel,
		}
		var runs []montecarlo.Result
		for _, w := range workloads {
			f, ok := runners[strings.ToLower(w)]
			if !ok {
				exit("Unknown workload", errors.New(w+" is not one of monitor, sequential, or parallel"))
			}
			res, err := f(cfg)
			if err != nil {
				exit("Cannot run workload "+w, err)
			}
			fmt.Print(montecarlo.Render(res))
			runs = append(runs, res)
		}

		if save {
			d, err := fs.GetDir(viper.GetBool("dev"))
			if err != nil {
				exit("Cannot get current directory??", err)
			}
			s := montecarlo.Summary{
				SessionID:   sessionID,
				GeneratedAt: time.Now().UTC().Format(time.RFC3339),
				Runs:        runs,
			}
			p, err := montecarlo.WriteJSON(s, path.Join(d, "logs"))
			if err != nil {
				exit("Cannot write results file", err)
			}
			log.Info(log.M{Msg: "Results written to " + p})
		}
		if csvFile != "" {
			if err := montecarlo.WriteCSV(runs, csvFile); err != nil {
				exit("Cannot write results CSV to "+csvFile, err)
			}
			log.Info(log.M{Msg: "Results CSV written to " + csvFile})
		}

		log.Info(log.M{Msg: "Benchmark session " + sessionID + " completed"})
	},
}

func genUUID() string {
	u, err := uuid.NewV4()
	if err != nil {
		return "static-id-doesnt-really-matter"
	}
	return u.String()
}
