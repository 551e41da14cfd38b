package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var prdCmd = &cobra.Command{
	Use:   "prd <feature>",
	Short: "Mark a feature's PRD as created",
	Long: `Record that the PRD artifact exists for the feature. The document
itself is produced by an external generator; rumbo only tracks that the
phase was reached.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := trk.MarkPRDCreated(context.Background(), args[0])
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s is now %s\n", green("✓"), f.ID, f.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prdCmd)
}
