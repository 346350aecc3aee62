package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/DIvanCode/rwlock/internal/api/client"
	"github.com/DIvanCode/rwlock/internal/scenario"
	"github.com/DIvanCode/rwlock/internal/tester"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run scenarios and print a summary",
	Long: "Run the named scenarios, or the ones from the config when none are named, " +
		"or all of them when the config names none either.",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if len(names) == 0 {
			names = cfg.Scenarios
		}

		remote, err := cmd.Flags().GetString("remote")
		if err != nil {
			return err
		}

		var report tester.Report
		if remote != "" {
			report, err = runRemote(cmd.Context(), remote, names)
		} else {
			report, err = runLocal(cmd.Context(), names)
		}
		if err != nil {
			return err
		}

		if err := report.WriteSummary(os.Stdout); err != nil {
			return err
		}

		if failed := len(report.Failed()); failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, len(report.Results))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("remote", "", "Run on an rwlockctl server instead of locally, ex: http://127.0.0.1:8080")
}

func runLocal(ctx context.Context, names []string) (tester.Report, error) {
	scenarios, err := scenario.Select(names)
	if err != nil {
		return tester.Report{}, err
	}

	l, err := newLocks(cfg, log, false)
	if err != nil {
		return tester.Report{}, err
	}
	defer l.sync()

	tr := tester.New(log, l.newLock, cfg.Timeout, clockwork.NewRealClock())
	return tr.Run(ctx, scenarios), nil
}

func runRemote(ctx context.Context, endpoint string, names []string) (tester.Report, error) {
	c := client.NewClient(endpoint)

	if len(names) == 0 {
		infos, err := c.ListScenarios(ctx)
		if err != nil {
			return tester.Report{}, err
		}
		for _, info := range infos {
			names = append(names, info.Name)
		}
	}

	var report tester.Report
	for _, name := range names {
		resp, err := c.RunScenario(ctx, name)
		if err != nil {
			return tester.Report{}, fmt.Errorf("failed to run %s: %w", name, err)
		}

		res := tester.Result{
			Name:     resp.Name,
			Duration: time.Duration(resp.DurationMicros) * time.Microsecond,
		}
		if !resp.Passed {
			res.Err = errors.New(resp.Error)
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}
