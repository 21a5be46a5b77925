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
	"os"
	"os/exec"
	"time"

	"ticko/core"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var lapInterval time.Duration

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run -- command [args...]",
	Short: "Time the execution of an external command",
	Long: `Runs the given command with a stopwatch around it and reports the
elapsed time when the command exits. With --lap-interval a second
goroutine records laps on the shared stopwatch while the command runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sw := core.NewStopWatch(nil, nil)
		if _, err := sw.Start(); err != nil {
			return err
		}

		done := make(chan struct{})
		if lapInterval > 0 {
			go recordLaps(sw, done)
		}

		c := exec.Command(args[0], args[1:]...)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		runErr := c.Run()
		close(done)

		elapsed, err := sw.Stop()
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"module": "run", "command": args[0], "elapsed": elapsed.Seconds()}).Infof("run: '%s' took %.6fs\n", args[0], elapsed.Seconds())

		if runErr != nil {
			return errors.WithStack(runErr)
		}
		return nil
	},
}

func recordLaps(sw *core.StopWatch, done <-chan struct{}) {
	ticker := time.NewTicker(lapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			lap, err := sw.Lap()
			if err != nil {
				return
			}
			log.WithFields(log.Fields{"module": "run", "lap": lap.Seconds()}).Infof("run: lap %.6fs\n", lap.Seconds())
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationVarP(&lapInterval, "lap-interval", "l", 0, "interval between automatic laps (0 disables)")
}
