package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/npratt/splitclock/internal/report"
	"github.com/npratt/splitclock/internal/runstate"
	"github.com/npratt/splitclock/internal/template"
	"github.com/npratt/splitclock/internal/timer"
	"github.com/npratt/splitclock/internal/tui"
)

// now is replaced in tests.
var now = time.Now

func (a *app) loadSnapshot() (timer.Snapshot, error) {
	_, paths, err := a.load()
	if err != nil {
		return timer.Snapshot{}, err
	}
	return runstate.NewStore(paths.RunState).Load()
}

func (a *app) statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the saved run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			snap, err := a.loadSnapshot()
			if errors.Is(err, runstate.ErrNoSavedRun) {
				fmt.Fprintln(out, "No saved run")
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool(FlagJSON); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(runstate.Encode(snap))
			}
			fmt.Fprint(out, tui.Summary(snap, terminalWidth()))
			return nil
		},
	}
	cmd.Flags().Bool(FlagJSON, false, "Output the run state file as JSON")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a CSV report of the saved run",
		Long: `Write a CSV report of the saved run.

Without --out the report goes to the reports directory under a name built
from the run label and the current time. Use --out - to print it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, paths, err := a.load()
			if err != nil {
				return err
			}
			snap, err := runstate.NewStore(paths.RunState).Load()
			if err != nil {
				return err
			}

			at := now()
			outPath, _ := cmd.Flags().GetString(FlagOut)
			if outPath == "-" {
				return report.WriteCSV(cmd.OutOrStdout(), snap.Label, at, snap.Splits)
			}
			if outPath == "" {
				outPath = filepath.Join(paths.Reports, report.DefaultFilename(snap.Label, at))
			}
			if err := report.Export(outPath, snap.Label, at, snap.Splits); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}
	cmd.Flags().String(FlagOut, "", "Report file path, or - for stdout")
	return cmd
}

func (a *app) templateCmd() *cobra.Command {
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect and select split templates",
	}

	showCmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a template",
		Long: `Print a template's splits and best segments.

Without a file, prints the template the next run starts with.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, paths, err := a.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				target, ok, err := template.NewPointer(paths.LastTemplate).Read()
				if err != nil {
					return err
				}
				if ok {
					path = target
				}
			}
			if path != "" {
				tpl, err := template.Load(path)
				if err != nil {
					return err
				}
				printTemplate(out, fmt.Sprintf("%s (%s)", template.LabelFor(path), path), tpl.Entries)
				return nil
			}

			source := "library"
			names, err := template.NewLibrary(paths.Library).Get(cfg.Template.DefaultName)
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, template.ErrNotInLibrary) {
				names, source = cfg.Template.DefaultSplits, "built-in"
			} else if err != nil {
				return err
			}
			entries := make([]template.Entry, len(names))
			for i, n := range names {
				entries[i] = template.Entry{Name: n}
			}
			printTemplate(out, fmt.Sprintf("%s (%s)", cfg.Template.DefaultName, source), entries)
			return nil
		},
	}

	useCmd := &cobra.Command{
		Use:   "use <file>",
		Short: "Start the next run with a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, paths, err := a.load()
			if err != nil {
				return err
			}
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			tpl, err := template.Load(abs)
			if err != nil {
				return err
			}
			if err := template.NewPointer(paths.LastTemplate).Write(abs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Next run uses %s (%d splits)\n", template.LabelFor(abs), len(tpl.Entries))
			return nil
		},
	}

	bestsCmd := &cobra.Command{
		Use:   "update-bests <file>",
		Short: "Update a template's best segments from the saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.loadSnapshot()
			if err != nil {
				return err
			}
			segments := make([]*time.Duration, len(snap.Splits))
			for i, s := range snap.Splits {
				segments[i] = s.SegmentTime
			}
			changed, err := template.UpdateBestSegments(args[0], segments)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Best segments updated in %s\n", args[0])
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Best segments already up to date")
			}
			return nil
		},
	}

	templateCmd.AddCommand(showCmd, useCmd, bestsCmd)
	return templateCmd
}

func printTemplate(w io.Writer, title string, entries []template.Entry) {
	fmt.Fprintln(w, title)
	for i, e := range entries {
		best := "-"
		if e.BestSegment != nil {
			best = timer.FormatClock(*e.BestSegment)
		}
		fmt.Fprintf(w, "%3d. %-32s %s\n", i+1, e.Name, best)
	}
}
