package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surveykit/tablepipe/pkg/table"
)

// summarizeCmd represents the summarize command for grouped summary
// statistics.
var summarizeCmd = &cobra.Command{
	Use:   "summarize [flags] input_file output_file",
	Short: "Group a table and reduce each group to summary statistics.",
	Long: `Group a table's rows by key columns and reduce each group to
	summary statistics, writing one output row per group.  Statistics are
	computed over non-missing values unless --keep-missing is given, in
	which case any missing value makes its statistic missing.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var aggs []table.Aggregation
		//
		for _, column := range getStringSlice(cmd, "mean") {
			aggs = append(aggs, table.Aggregation{Column: column, Op: table.ReduceMean})
		}
		//
		for _, column := range getStringSlice(cmd, "stddev") {
			aggs = append(aggs, table.Aggregation{Column: column, Op: table.ReduceStdDev})
		}
		//
		var (
			opts = ioOptions(cmd)
			t    = readTable(args[0], opts)
		)
		//
		grouped, err := table.GroupBy(t, getStringSlice(cmd, "by"), aggs, !getFlag(cmd, "keep-missing"))
		// Handle error
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		writeTable(grouped, args[1], opts)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().String("delimiter", "", "delimiter for delimited-text files")
	summarizeCmd.Flags().StringSlice("by", nil, "key columns to group by")
	summarizeCmd.Flags().StringSlice("mean", nil, "columns to reduce to their mean")
	summarizeCmd.Flags().StringSlice("stddev", nil, "columns to reduce to their standard deviation")
	summarizeCmd.Flags().Bool("keep-missing", false, "missing values poison their statistic")
}
