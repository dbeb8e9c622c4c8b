package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	exitSolved             = 10
	exitVerificationFailed = 15
	exitFailure            = 1
)

// exitCodeError carries a process exit code out of a command
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	return e.err.Error()
}

func (e exitCodeError) Unwrap() error {
	return e.err
}

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	exitCode int
}

func (a *app) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sectiontable",
		Short: "Builds weekly section timetables with a greedy placement engine",
		Long: `sectiontable places subject-faculty pairs into a 6-day x 8-period grid for every section.

Labs and tutorials are placed first as two-period blocks, then the single-day intensive
block, then theory subjects spread across the week. Hours that do not fit are left out
and reported as shortfalls.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("env-file", ".env", "Path to an optional env file")
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.AddCommand(a.newSolveCommand(), a.newServeCommand())
	return cmd
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.newRootCommand()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		var exitErr exitCodeError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		return exitFailure
	}
	return a.exitCode
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := (&app{stdout: os.Stdout, stderr: os.Stderr}).execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
