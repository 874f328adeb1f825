package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surveykit/tablepipe/pkg/table"
)

// joinCmd represents the join command for combining two table files.
var joinCmd = &cobra.Command{
	Use:   "join [flags] left_file right_file output_file",
	Short: "Join two table files on key columns.",
	Long: `Join two table files on one or more key columns and write the
	combined table.  Without --on, the columns common to both tables are
	used.  Multiple right-side matches fan out into multiple output rows.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		mode, err := table.ParseJoinMode(getString(cmd, "mode"))
		// Handle error
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		var (
			opts  = ioOptions(cmd)
			left  = readTable(args[0], opts)
			right = readTable(args[1], opts)
		)
		//
		joined, err := table.Join(left, right, getStringSlice(cmd, "on"), mode)
		// Handle error
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		writeTable(joined, args[2], opts)
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
	joinCmd.Flags().String("delimiter", "", "delimiter for delimited-text files")
	joinCmd.Flags().StringSlice("on", nil, "key columns to join on")
	joinCmd.Flags().String("mode", "left", "join mode (left, right, inner, full)")
}
