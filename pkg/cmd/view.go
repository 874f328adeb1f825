package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surveykit/tablepipe/pkg/table"
	"github.com/surveykit/tablepipe/pkg/util/termio"
)

// viewCmd represents the view command for inspecting a table file.
var viewCmd = &cobra.Command{
	Use:   "view [flags] table_file",
	Short: "Print the head of a table file.",
	Long: `Print the column names and leading rows of a table file, with
	column widths capped to fit the enclosing terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			t    = readTable(args[0], ioOptions(cmd))
			rows = int(getUint(cmd, "rows"))
		)
		//
		if rows > t.Height() {
			rows = t.Height()
		}
		//
		printTable(t, rows)
		//
		fmt.Printf("%d rows, %d columns\n", t.Height(), t.Width())
	},
}

// printTable renders the leading rows of a table, sized to the terminal.
func printTable(t *table.Table, rows int) {
	printer := termio.NewTablePrinter(t.Width())
	printer.AddRow(t.Names()...)
	//
	for row := 0; row < rows; row++ {
		cells := make([]string, t.Width())
		//
		for i := range cells {
			cells[i] = t.ColumnAt(i).Value(row).Text()
		}
		//
		printer.AddRow(cells...)
	}
	// Split terminal width evenly across columns, spacing included.
	if t.Width() > 0 {
		printer.SetMaxWidth(max(3, termio.TerminalWidth()/t.Width()-1))
	}
	//
	printer.Print(os.Stdout)
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().String("delimiter", "", "delimiter for delimited-text files")
	viewCmd.Flags().Uint("rows", 10, "number of rows to print")
}
