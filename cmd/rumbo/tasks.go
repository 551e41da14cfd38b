package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rumbolabs/rumbo/internal/tracker"
)

var tasksFile string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage a feature's task list",
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <feature>",
	Short: "Append a batch of tasks from a YAML file",
	Long: `Append tasks to a feature from a YAML task list. Ids are assigned
sequentially (001, 002, ...). Dependencies are validated for dangling
references and cycles before anything is written.

Task file format:

  tasks:
    - slug: user-model
      title: Create the user model
      priority: 1
      requisito: REQ-12
    - slug: user-endpoints
      title: Add user endpoints
      priority: 2
      depends_on: ["001"]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := loadTaskFile(tasksFile)
		if err != nil {
			return err
		}
		f, err := trk.AddTasks(context.Background(), args[0], specs)
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added %d task(s) to %s (%d total)\n", green("✓"), len(specs), f.ID, len(f.Tasks))
		for _, t := range f.Tasks {
			fmt.Printf("  %s  P%d  %s\n", t.ID, t.Priority, t.Title)
		}
		return nil
	},
}

// taskFile is the YAML shape accepted by "tasks add -f".
type taskFile struct {
	Tasks []tracker.TaskSpec `yaml:"tasks"`
}

func loadTaskFile(path string) ([]tracker.TaskSpec, error) {
	if path == "" {
		return nil, fmt.Errorf("a task file is required (-f tasks.yaml)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	var tf taskFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing task file: %w", err)
	}
	if len(tf.Tasks) == 0 {
		return nil, fmt.Errorf("task file %s contains no tasks", path)
	}
	return tf.Tasks, nil
}

func init() {
	tasksAddCmd.Flags().StringVarP(&tasksFile, "file", "f", "", "YAML file with the task list")
	tasksCmd.AddCommand(tasksAddCmd)
	rootCmd.AddCommand(tasksCmd)
}
