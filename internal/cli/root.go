package cli

import (
	"github.com/spf13/cobra"
)

// projectDir is the directory holding config.yaml and the database.
var projectDir string

var rootCmd = &cobra.Command{
	Use:   "crmboard",
	Short: "Drag-and-drop boards for tasks, projects and customers",
	Long: "crmboard — column boards over a small CRM.\n" +
		"Drag a card into another column to reclassify it; the change is saved as soon as the card crosses over.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", dirName, "Project directory")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(customerCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(logCmd)
}
