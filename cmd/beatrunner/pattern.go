package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beatrunner/internal/beat"
)

var (
	flagSteps     int
	flagStart     int
	flagVariation int
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Print the beat pattern",
	Long: `Print the events the beat scheduler emits for a range of steps, with
the time of each step relative to the first.

Examples:
  beatrunner pattern                    # First bar
  beatrunner pattern --steps 64         # First phrase
  beatrunner pattern --start 256 --variation 2`,
	Args: cobra.NoArgs,
	RunE: runPattern,
}

func init() {
	patternCmd.Flags().IntVar(&flagSteps, "steps", 16, "Number of steps to print")
	patternCmd.Flags().IntVar(&flagStart, "start", 0, "First step")
	patternCmd.Flags().IntVar(&flagVariation, "variation", 0, "Variation in effect before the first step (0-3)")
}

func runPattern(_ *cobra.Command, _ []string) error {
	if flagSteps <= 0 {
		return fmt.Errorf("--steps must be positive")
	}
	if flagVariation < 0 || flagVariation > 3 {
		return fmt.Errorf("--variation must be between 0 and 3")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stepDur := cfg.Beat.StepDuration()

	fmt.Printf("%.0f BPM, %d steps per beat, %.1f ms per step\n\n",
		cfg.Beat.Tempo, cfg.Beat.Subdivision, stepDur*1000)
	fmt.Printf("  %-5s  %-3s  %-9s  %s\n", "Step", "Var", "Time", "Events")
	fmt.Printf("  %-5s  %-3s  %-9s  %s\n", "----", "---", "----", "------")

	variation := flagVariation
	for i := 0; i < flagSteps; i++ {
		step := (flagStart + i) % beat.PatternLength
		variation = beat.NextVariation(step, variation)

		events := beat.Pattern(step, variation)
		names := make([]string, len(events))
		for j, ev := range events {
			names[j] = ev.Kind.String()
			if ev.Freq > 0 {
				names[j] += fmt.Sprintf("(%.2f)", ev.Freq)
			}
		}

		fmt.Printf("  %-5d  %-3d  %8.3fs  %s\n", step, variation, float64(i)*stepDur, strings.Join(names, " "))
	}
	return nil
}
