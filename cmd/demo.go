/*
Copyright © 2026 Ticko Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"sync"
	"time"

	"ticko/core"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var demoWorkers, demoLaps int

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Record laps from concurrent workers on one shared stopwatch",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		sw := core.NewStopWatch(nil, nil)
		if _, err := sw.Start(); err != nil {
			return err
		}

		var wg sync.WaitGroup
		for i := 0; i < demoWorkers; i++ {
			wg.Add(1)
			go func(worker int) {
				defer wg.Done()
				for j := 0; j < demoLaps; j++ {
					time.Sleep(time.Duration(1+rand.Intn(20)) * time.Millisecond)
					lap, err := sw.Lap()
					if err != nil {
						log.WithFields(log.Fields{"module": "demo", "worker": worker, "error": err}).Error("demo: lap failed")
						return
					}
					log.WithFields(log.Fields{"module": "demo", "worker": worker, "lap": lap.Seconds()}).Infof("demo: worker %d lap %.6fs\n", worker, lap.Seconds())
				}
			}(i)
		}
		wg.Wait()

		elapsed, err := sw.Stop()
		if err != nil {
			return err
		}

		lastLap, err := sw.TimeLastLap()
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"module": "demo", "elapsed": elapsed.Seconds(), "lastLap": lastLap.Seconds()}).Infof("demo: %d workers x %d laps took %.6fs\n", demoWorkers, demoLaps, elapsed.Seconds())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVarP(&demoWorkers, "workers", "w", 3, "number of concurrent workers")
	demoCmd.Flags().IntVarP(&demoLaps, "laps", "n", 10, "laps recorded by each worker")
}
