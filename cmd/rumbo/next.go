package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rumbolabs/rumbo/internal/resolver"
)

var nextCmd = &cobra.Command{
	Use:   "next <feature>",
	Short: "Show the recommended next action for a feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := trk.GetFeature(context.Background(), args[0])
		if err != nil {
			return err
		}
		rec, err := resolver.NextAction(f)
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		switch rec.Action {
		case resolver.ActionComplete:
			fmt.Printf("%s %s\n", green("✓"), rec.Reason)
		case resolver.ActionPlan, resolver.ActionCode:
			fmt.Printf("Next: %s task %s\n", cyan(string(rec.Action)), rec.TaskID)
			fmt.Printf("  %s\n", rec.Reason)
		default:
			fmt.Printf("Next: %s\n", cyan(string(rec.Action)))
			fmt.Printf("  %s\n", rec.Reason)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
