package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/npratt/splitclock/internal/events"
)

const (
	followPollInterval = 100 * time.Millisecond
	fileWaitInterval   = 500 * time.Millisecond
)

func (a *app) journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent timer events",
		Long: `Show the journal of timer events: starts, stops, splits, focus tracking,
template and run-state file operations.

Use --follow to watch events from a running timer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, paths, err := a.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if follow, _ := cmd.Flags().GetBool(FlagFollow); follow {
				return tailFollow(cmd.Context(), out, paths.Journal)
			}
			count, _ := cmd.Flags().GetInt(FlagCount)
			return tailLast(out, paths.Journal, count)
		},
	}
	cmd.Flags().Bool(FlagFollow, false, "Follow the journal (like tail -f)")
	cmd.Flags().Int(FlagCount, 20, "Number of recent events to show")
	return cmd
}

// tailLast prints the last n lines of the journal.
func tailLast(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "No events yet (journal does not exist)")
			return nil
		}
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Keep a ring of the last n lines
	if n <= 0 {
		n = 1
	}
	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	if len(ring) == 0 {
		fmt.Fprintln(w, "No events yet")
		return nil
	}
	for _, line := range ring {
		printEventLine(w, line)
	}
	return nil
}

// waitForFile polls until path exists and returns it opened.
func waitForFile(ctx context.Context, path string) (*os.File, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(fileWaitInterval):
			file, err := os.Open(path)
			if err == nil {
				return file, nil
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("open journal: %w", err)
			}
		}
	}
}

// tailFollow prints lines appended to the journal until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("open journal: %w", err)
		}
		fmt.Fprintln(w, "Waiting for journal to be created...")
		file, err = waitForFile(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	fmt.Fprintln(w, "Following events (Ctrl+C to stop)...")
	reader := bufio.NewReader(file)
	var partial strings.Builder
	for {
		chunk, err := reader.ReadString('\n')
		partial.WriteString(chunk)
		if err == nil {
			printEventLine(w, strings.TrimSuffix(partial.String(), "\n"))
			partial.Reset()
			continue
		}
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("read journal: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(followPollInterval):
		}
	}
}

// printEventLine prints one journal line. Lines that are not known events
// are printed as-is.
func printEventLine(w io.Writer, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	event, err := events.ParseEvent([]byte(line))
	if err != nil || event == nil {
		fmt.Fprintln(w, line)
		return
	}
	fmt.Fprintln(w, events.FormatWithTimestamp(event))
}
