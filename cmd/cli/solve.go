package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/sectiontable/internal/config"
	"github.com/limaJavier/sectiontable/internal/logger"
	"github.com/limaJavier/sectiontable/pkg/dataset"
	"github.com/limaJavier/sectiontable/pkg/model"
)

func (a *app) newSolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a curriculum once and print the timetable as JSON",
		Long: `Solve reads a JSON or YAML curriculum (or the built-in one when --file is empty), builds a
timetable and writes it as JSON, keyed by section. A summary with every shortfall is printed to
stderr. The process exits with 10 on success and 15 when the timetable fails verification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.Load(envFile, cmd.Flags())
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetString("file")
			out, _ := cmd.Flags().GetString("out")
			check, _ := cmd.Flags().GetBool("verify")
			return a.solve(cfg, file, out, check)
		},
	}

	cmd.Flags().String("file", "", "Path to the input file (.json, .yaml or .yml); the built-in curriculum is used when empty")
	cmd.Flags().String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	cmd.Flags().Uint64("seed", 0, "Seed for every random ordering; a random seed is drawn when unset")
	cmd.Flags().Int("sections", 0, "Solve only the first N sections of the input")
	cmd.Flags().Bool("verify", true, "Verify the timetable before writing it")
	cmd.Flags().String("log-level", "info", "Log level")
	return cmd
}

func (a *app) solve(cfg *config.Config, file, out string, check bool) error {
	l, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("cannot build logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	input, err := loadInput(file)
	if err != nil {
		return err
	}
	if cfg.Sections > 0 && cfg.Sections != input.Sections {
		if input, err = input.Restrict(cfg.Sections); err != nil {
			return err
		}
	}

	seed := cfg.Seed
	if !cfg.HasSeed {
		seed = rand.Uint64()
	}

	timetabler := model.NewGreedyTimetabler(model.WithLogger(l))
	timetable, err := timetabler.Build(input, model.NewRand(seed))
	if err != nil {
		return fmt.Errorf("an error occurred during timetable construction: %w", err)
	}
	l.Debug("timetable built", zap.Uint64("seed", seed))

	printSummary(a.stderr, timetable, input, seed)

	if check && !timetabler.Verify(timetable, input) {
		return exitCodeError{code: exitVerificationFailed, err: errors.New("timetable failed verification")}
	}

	payload, err := json.Marshal(timetable)
	if err != nil {
		return fmt.Errorf("an error occurred while building output json: %w", err)
	}

	if out == "" {
		fmt.Fprintln(a.stdout, string(payload))
	} else if err := os.WriteFile(out, payload, 0666); err != nil {
		return fmt.Errorf("an error occurred while writing to the output file: %w", err)
	}

	a.exitCode = exitSolved
	return nil
}

func loadInput(file string) (model.ModelInput, error) {
	if file == "" {
		return dataset.Default()
	}
	input, err := model.InputFromFile(file)
	if err != nil {
		return model.ModelInput{}, fmt.Errorf("cannot parse input file: %w", err)
	}
	return input, nil
}

func printSummary(w io.Writer, timetable model.Timetable, input model.ModelInput, seed uint64) {
	stats := model.Summarize(timetable, input)
	shortfalls := model.Shortfalls(timetable, input)

	bold := color.New(color.Bold)
	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	warn := color.New(color.FgYellow)

	bold.Fprintf(w, "Seed: %v\n", seed)
	fmt.Fprintf(w, "Slots filled: %v / %v\n", stats.FilledSlots, stats.TotalSlots)
	fmt.Fprintf(w, "Sections fully filled: %v / %v\n", stats.SectionsFilled, stats.Sections)
	if stats.Collisions == 0 {
		good.Fprintln(w, "Faculty collisions: none")
	} else {
		bad.Fprintf(w, "Faculty collisions: %v\n", stats.Collisions)
	}

	if len(shortfalls) == 0 {
		good.Fprintln(w, "Every required hour was placed")
		return
	}
	warn.Fprintf(w, "Shortfalls (%v):\n", len(shortfalls))
	for _, shortfall := range shortfalls {
		fmt.Fprintf(w, "  section %-3v %-10v %v / %v hours\n", shortfall.Section, shortfall.SubjectId, shortfall.Placed, shortfall.Required)
	}
}
