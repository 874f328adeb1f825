package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// convertCmd represents the convert command for translating a table file
// from one format to another.
var convertCmd = &cobra.Command{
	Use:   "convert [flags] input_file output_file",
	Short: "Convert a table file between formats.",
	Long: `Convert a table file from one format to another, with both
	formats resolved from the file extensions (.csv, .tsv, .dta, .stb,
	.xlsx).  Any existing file at the output path is overwritten.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		opts := ioOptions(cmd)
		// Load, then save in the target format.
		t := readTable(args[0], opts)
		//
		writeTable(t, args[1], opts)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("delimiter", "", "delimiter for delimited-text files")
}
