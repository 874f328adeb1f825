package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surveykit/tablepipe/pkg/pipeline"
)

// runCmd represents the run command for executing a declarative pipeline.
var runCmd = &cobra.Command{
	Use:   "run [flags] pipeline_file",
	Short: "Execute a declarative pipeline definition.",
	Long: `Execute a pipeline definition (YAML): load its source table,
	apply its stages in order, and save the result to its sink.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		def, err := pipeline.LoadFile(args[0])
		// Handle error
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if err := def.Run(); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
