package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Scan all features for overlapping resource footprints",
	Long: `Compare the declared resource footprints of non-completed tasks
across all non-completed features. Overlaps already serialized by a
dependency edge are not reported. The scan is advisory and read-only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conflicts, err := detector.Scan(context.Background())
		if err != nil {
			return err
		}
		if len(conflicts) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s No resource conflicts\n", green("✓"))
			return nil
		}
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		for _, c := range conflicts {
			fmt.Printf("%s %s\n", red("✗"), c.Resource)
			for _, claimant := range c.Claimants {
				fmt.Printf("    claimed by %s/%s\n", claimant.FeatureID, claimant.TaskID)
			}
		}
		return fmt.Errorf("%d conflicting resource(s)", len(conflicts))
	},
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}
