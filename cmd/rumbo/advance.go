package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rumbolabs/rumbo/internal/types"
)

var advanceTo string

var advanceCmd = &cobra.Command{
	Use:   "advance <feature> <task>",
	Short: "Advance a task to its next status",
	Long: `Move a task one step forward in its pipeline
(defined → planned → in_progress → completed), or to an explicit target
with --to. Skipping stages and moving backward are rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		featureID, taskID := args[0], args[1]
		ctx := context.Background()

		target := types.TaskStatus(advanceTo)
		if advanceTo == "" {
			f, err := trk.GetFeature(ctx, featureID)
			if err != nil {
				return err
			}
			task := f.Task(taskID)
			if task == nil {
				return fmt.Errorf("task %s not found in feature %s", taskID, featureID)
			}
			target = task.Status.Next()
			if target == "" {
				return fmt.Errorf("task %s is already completed", taskID)
			}
		}

		f, err := trk.AdvanceTask(ctx, featureID, taskID, target)
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s/%s is now %s\n", green("✓"), f.ID, taskID, target)
		fmt.Printf("  Feature: %s, %d%% complete\n", f.Status, f.Progress)
		return nil
	},
}

func init() {
	advanceCmd.Flags().StringVar(&advanceTo, "to", "", "Target status (default: the next stage)")
	rootCmd.AddCommand(advanceCmd)
}
