package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	createDescription string
	createRequest     string
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new feature",
	Long: `Create a new feature record in created status. The feature id is
derived from the current time and a slug of the title and never changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		f, err := trk.CreateFeature(context.Background(), title, createDescription, createRequest)
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created feature %s\n", green("✓"), f.ID)
		fmt.Printf("  Title:  %s\n", f.Title)
		fmt.Printf("  Status: %s\n", f.Status)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Feature description")
	createCmd.Flags().StringVarP(&createRequest, "request", "r", "", "Original request text, kept verbatim")
	rootCmd.AddCommand(createCmd)
}
