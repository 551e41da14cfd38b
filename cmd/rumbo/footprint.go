package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var footprintCmd = &cobra.Command{
	Use:   "footprint <feature> <task> <path>...",
	Short: "Declare the file paths a task intends to touch",
	Long: `Record a task's resource footprint: the file paths it intends to
create or modify. Paths are opaque strings supplied by the planning
collaborator and feed the cross-feature conflict scan.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		featureID, taskID, paths := args[0], args[1], args[2:]
		f, err := trk.SetFootprint(context.Background(), featureID, taskID, paths)
		if err != nil {
			return err
		}
		task := f.Task(taskID)
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Footprint for %s/%s (%d path(s)):\n", green("✓"), f.ID, taskID, len(task.ResourceFootprint))
		for _, p := range task.ResourceFootprint {
			fmt.Printf("  %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(footprintCmd)
}
