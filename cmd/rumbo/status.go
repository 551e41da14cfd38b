package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rumbolabs/rumbo/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [feature]",
	Short: "Show feature status and progress",
	Long:  `List all features, or show one feature with its full task list.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if len(args) == 1 {
			return printFeature(ctx, args[0])
		}
		return printList(ctx)
	},
}

func printList(ctx context.Context) error {
	summaries, err := trk.ListFeatures(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("%s\n", gray("No features tracked yet"))
		return nil
	}
	for _, s := range summaries {
		icon, paint := statusDecoration(s.Status)
		fmt.Printf("%s %s  %3d%%  %s\n", paint(icon), paint(string(s.Status)), s.Progress, s.ID)
	}
	return nil
}

func printFeature(ctx context.Context, id string) error {
	f, err := trk.GetFeature(ctx, id)
	if err != nil {
		return err
	}
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("%s\n", cyan(f.ID))
	fmt.Printf("  Title:    %s\n", f.Title)
	fmt.Printf("  Status:   %s (phase %s)\n", f.Status, f.CurrentPhase)
	fmt.Printf("  Progress: %d%% (%d/%d tasks)\n", f.Progress, f.CompletedTasks(), len(f.Tasks))
	if len(f.Tasks) == 0 {
		return nil
	}
	fmt.Println()
	for _, t := range f.Tasks {
		icon, paint := taskDecoration(t.Status)
		fmt.Printf("  %s %s  P%d  %-12s %s\n", paint(icon), t.ID, t.Priority, t.Status, t.Title)
		if len(t.DependsOn) > 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("      %s\n", gray(fmt.Sprintf("depends on %v", t.DependsOn)))
		}
	}
	return nil
}

func statusDecoration(s types.FeatureStatus) (string, func(...interface{}) string) {
	switch s {
	case types.FeatureCompleted:
		return "●", color.New(color.FgGreen).SprintFunc()
	case types.FeatureInProgress:
		return "●", color.New(color.FgYellow).SprintFunc()
	default:
		return "○", color.New(color.FgHiBlack).SprintFunc()
	}
}

func taskDecoration(s types.TaskStatus) (string, func(...interface{}) string) {
	switch s {
	case types.TaskCompleted:
		return "●", color.New(color.FgGreen).SprintFunc()
	case types.TaskInProgress:
		return "●", color.New(color.FgYellow).SprintFunc()
	case types.TaskPlanned:
		return "◐", color.New(color.FgCyan).SprintFunc()
	default:
		return "○", color.New(color.FgHiBlack).SprintFunc()
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
